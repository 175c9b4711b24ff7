package ingest

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// WriteProducts writes the canonical product schema as CSV.
func WriteProducts(path string, products []domain.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ingest: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Product_ID", "Product_Title", "Description", "Category", "Price", "Rating", "Rating_Count", "Store", "feature_list"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range products {
		rec := []string{
			p.ID,
			p.Title,
			p.Description,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			strconv.Itoa(p.RatingCount),
			p.Store,
			strings.Join(p.Features, "|"),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteOrders writes the canonical order schema as CSV.
func WriteOrders(path string, orders []domain.Order) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ingest: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"Order_ID", "Order_DateTime", "Customer_Id", "Gender", "Device_Type",
		"Customer_Login_type", "Product_Category", "Product", "Quantity",
		"Sales", "Total_Amount", "Discount", "Profit", "Net_Profit",
		"Shipping_Cost", "Order_Priority", "Payment_method",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, o := range orders {
		rec := []string{
			strconv.Itoa(o.ID),
			o.PlacedAt.Format(timestampLayout),
			strconv.Itoa(o.CustomerID),
			o.Gender,
			o.DeviceType,
			o.LoginType,
			o.Category,
			o.Product,
			strconv.Itoa(o.Quantity),
			ff(o.Sales),
			ff(o.TotalAmount),
			ff(o.Discount),
			ff(o.Profit),
			ff(o.NetProfit),
			ff(o.ShippingCost),
			o.Priority,
			o.Payment,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// matrixFile is the on-disk embedding matrix format.
type matrixFile struct {
	Model   string
	Vectors [][]float32
}

// SaveMatrix persists the embedding matrix with the model name that
// produced it.
func SaveMatrix(path, model string, matrix [][]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ingest: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(matrixFile{Model: model, Vectors: matrix}); err != nil {
		return fmt.Errorf("ingest: encode matrix: %w", err)
	}
	return nil
}

// LoadMatrix reads a matrix saved by SaveMatrix.
func LoadMatrix(path string) (string, [][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	var mf matrixFile
	if err := gob.NewDecoder(f).Decode(&mf); err != nil {
		return "", nil, fmt.Errorf("ingest: decode matrix: %w", err)
	}
	return mf.Model, mf.Vectors, nil
}
