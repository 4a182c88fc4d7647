// Package seed reads the optional baseline catalog shipped alongside the
// service and provides the built-in sample used when it is missing.
package seed

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/talkincode/catalog/internal/domain"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one product entry of a seed file. Err is set when the entry
// could not be decoded.
type Record struct {
	Modelo string `json:"modelo"`
	Precio *int64 `json:"precio"`
	Err    error  `json:"-"`
}

func price(v int64) *int64 { return &v }

// SampleRecords is the catalog used when no seed file is available.
var SampleRecords = []Record{
	{Modelo: "iPhone 14", Precio: price(1200000)},
	{Modelo: "Samsung Galaxy S23", Precio: price(1100000)},
	{Modelo: "MacBook Air M2", Precio: price(1800000)},
	{Modelo: "Dell XPS 13", Precio: price(1500000)},
	{Modelo: "iPad Pro", Precio: price(1000000)},
}

// Load reads and parses the seed file at path. The format follows the file
// extension: .csv, .yaml/.yml, anything else is read as JSON. A missing file
// yields an error satisfying os.IsNotExist after errors.Cause.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Parse(data, formatOf(path))
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes data in the given format ("json", "yaml" or "csv") into
// records. Values are weakly typed, so a precio written as a string or a
// whole float is accepted. A record that fails to decode keeps its error in
// Err and does not fail the whole file.
func Parse(data []byte, format string) ([]Record, error) {
	var items []map[string]interface{}
	switch format {
	case "csv":
		rows, err := gocsv.CSVToMaps(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "parse csv seed")
		}
		for _, row := range rows {
			item := make(map[string]interface{}, len(row))
			for k, v := range row {
				if v = strings.TrimSpace(v); v != "" {
					item[strings.TrimSpace(k)] = v
				}
			}
			items = append(items, item)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, errors.Wrap(err, "parse yaml seed")
		}
	default:
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, errors.Wrap(err, "parse json seed")
		}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		var r Record
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       wholePrice,
			WeaklyTypedInput: true,
			TagName:          "json",
			Result:           &r,
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if err := decoder.Decode(item); err != nil {
			r = Record{Err: errors.Wrap(err, "decode seed record")}
		}
		records = append(records, r)
	}
	return records, nil
}

// wholePrice refuses fractional prices instead of letting the weak decoder
// truncate them, and accepts integral ones written as "1200000.0".
func wholePrice(from, to reflect.Type, data interface{}) (interface{}, error) {
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	if to.Kind() != reflect.Int64 {
		return data, nil
	}

	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if _, err := strconv.ParseInt(s, 0, 64); err == nil {
			return data, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return data, nil
		}
		f = parsed
	default:
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, errors.Errorf("precio %v is not a whole number", data)
	}
	return int64(f), nil
}

// Products converts records to products, dropping entries that failed to
// decode or lack a modelo or a precio. The indexes of dropped records are
// returned alongside.
func Products(records []Record) ([]domain.Product, []int) {
	products := make([]domain.Product, 0, len(records))
	var rejected []int
	for i, r := range records {
		modelo := strings.TrimSpace(r.Modelo)
		if r.Err != nil || modelo == "" || r.Precio == nil {
			rejected = append(rejected, i)
			continue
		}
		products = append(products, domain.Product{Modelo: modelo, Precio: *r.Precio})
	}
	return products, rejected
}
