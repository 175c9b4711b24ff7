// Package ingest loads the product catalog and order ledger from CSV,
// remapping raw or processed schema variants into the canonical in-memory
// schema, dropping rows that violate the retention invariants, and building
// the product embedding matrix.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

// columns maps a header row to field indices for one schema variant.
type columns map[string]int

func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (c columns) has(name string) bool {
	_, ok := c[name]
	return ok
}

func readAll(path string) (columns, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: read header %s: %w", path, err)
	}
	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	return cols, rows, nil
}

// productFieldMap translates the raw product schema to canonical names.
// Applied once at load; nothing branches on schema at query time.
var productFieldMap = map[string]string{
	"Product_ID":    "parent_asin",
	"Product_Title": "title",
	"Description":   "description",
	"Category":      "main_category",
	"Price":         "price",
	"Rating":        "average_rating",
	"Rating_Count":  "rating_number",
	"Store":         "store",
	"feature_list":  "features",
}

// LoadProducts reads a product CSV in either schema variant. Rows with a
// non-positive price or a rating outside [0,5] are dropped here, so query
// paths never re-validate.
func LoadProducts(path string, logger *slog.Logger) ([]domain.Product, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cols, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	raw := !cols.has("Product_Title")
	name := func(canonical string) string {
		if raw {
			return productFieldMap[canonical]
		}
		return canonical
	}

	var out []domain.Product
	dropped := 0
	for i, rec := range rows {
		price, perr := strconv.ParseFloat(cols.get(rec, name("Price")), 64)
		rating, rerr := strconv.ParseFloat(cols.get(rec, name("Rating")), 64)
		if perr != nil || rerr != nil {
			dropped++
			continue
		}

		p := domain.Product{
			ID:          cols.get(rec, name("Product_ID")),
			Title:       cols.get(rec, name("Product_Title")),
			Description: cols.get(rec, name("Description")),
			Category:    cols.get(rec, name("Category")),
			Price:       price,
			Rating:      rating,
			Store:       cols.get(rec, name("Store")),
		}
		if raw {
			p.RawID = cols.get(rec, "parent_asin")
		}
		if p.ID == "" {
			p.ID = strconv.Itoa(i + 1)
		}
		if n, err := strconv.ParseFloat(cols.get(rec, name("Rating_Count")), 64); err == nil {
			p.RatingCount = int(n)
		}

		features := cols.get(rec, name("feature_list"))
		if features != "" {
			p.Features = splitFeatures(features)
		}
		p.Description = backfillDescription(p.Description, features)

		if !domain.ValidProduct(p) {
			dropped++
			continue
		}
		out = append(out, p)
	}

	logger.Info("products loaded", "path", path, "kept", len(out), "dropped", dropped, "raw_schema", raw)
	return out, nil
}

// backfillDescription substitutes the features text for an absent
// description. "nan" and "[]" are absence markers left behind by upstream
// exports.
func backfillDescription(desc, features string) string {
	d := strings.TrimSpace(desc)
	if d != "" && strings.ToLower(d) != "nan" && d != "[]" {
		return desc
	}
	f := strings.TrimSpace(features)
	if f != "" && strings.ToLower(f) != "nan" && f != "[]" {
		return features
	}
	return desc
}

func splitFeatures(s string) []string {
	parts := strings.Split(s, "|")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var orderTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

func parseOrderTime(s string) (time.Time, error) {
	var last error
	for _, layout := range orderTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		last = err
	}
	return time.Time{}, last
}

// LoadOrders reads an order CSV in either schema variant. The raw variant
// carries the date and time in separate columns; they are merged into one
// instant here. Rows with non-positive sales or an unparseable shipping
// cost are dropped. Categorical fields are normalized to title case.
func LoadOrders(path string, logger *slog.Logger) ([]domain.Order, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cols, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	processed := cols.has("Order_DateTime")
	if !processed && (!cols.has("Order_Date") || !cols.has("Time")) {
		return nil, fmt.Errorf("ingest: %s: order data missing datetime columns", path)
	}

	var out []domain.Order
	dropped := 0
	for i, rec := range rows {
		var ts string
		if processed {
			ts = cols.get(rec, "Order_DateTime")
		} else {
			ts = cols.get(rec, "Order_Date") + " " + cols.get(rec, "Time")
		}
		placedAt, terr := parseOrderTime(ts)

		sales, serr := strconv.ParseFloat(cols.get(rec, "Sales"), 64)
		shipping, sherr := strconv.ParseFloat(cols.get(rec, "Shipping_Cost"), 64)
		if terr != nil || serr != nil || sherr != nil {
			dropped++
			continue
		}

		o := domain.Order{
			PlacedAt:     placedAt,
			Product:      cols.get(rec, "Product"),
			Category:     cols.get(rec, "Product_Category"),
			Sales:        sales,
			ShippingCost: shipping,
			Priority:     titleCase(cols.get(rec, "Order_Priority")),
			Payment:      titleCase(cols.get(rec, "Payment_method")),
			LoginType:    titleCase(cols.get(rec, "Customer_Login_type")),
			Gender:       titleCase(cols.get(rec, "Gender")),
			DeviceType:   titleCase(cols.get(rec, "Device_Type")),
		}
		if n, err := strconv.Atoi(cols.get(rec, "Order_ID")); err == nil {
			o.ID = n
		} else {
			o.ID = i + 1
		}
		if n, err := strconv.Atoi(cols.get(rec, "Customer_Id")); err == nil {
			o.CustomerID = n
		}
		if n, err := strconv.ParseFloat(cols.get(rec, "Quantity"), 64); err == nil {
			o.Quantity = int(n)
		}
		if n, err := strconv.ParseFloat(cols.get(rec, "Discount"), 64); err == nil {
			o.Discount = n
		}
		if n, err := strconv.ParseFloat(cols.get(rec, "Profit"), 64); err == nil {
			o.Profit = n
		}

		o.TotalAmount = o.Sales * float64(o.Quantity)
		o.NetProfit = o.Profit - o.ShippingCost

		if !domain.ValidOrder(o) {
			dropped++
			continue
		}
		out = append(out, o)
	}

	logger.Info("orders loaded", "path", path, "kept", len(out), "dropped", dropped, "raw_schema", !processed)
	return out, nil
}

// titleCase normalizes a categorical value: trimmed, each word capitalized.
func titleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}
