// seed_catalog genera un script SQL para poblar el catálogo de productos a
// partir de un CSV exportado del sistema administrativo (sku;nombre;costo;
// iva;stock_seguridad;minimo_pedido). Los exportes de sistemas POS antiguos
// suelen venir en ISO-8859-1; si el archivo no es UTF-8 válido se decodifica
// como tal.
//
// Uso: go run ./cmd/seed_catalog [ruta/Catalogo.csv]
// Por defecto busca Catalogo.csv en el directorio actual.
// Escribe: migrations/00004_seed_catalog.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type productRow struct {
	sku         string
	name        string
	cost        decimal.Decimal
	taxRate     decimal.Decimal
	safetyStock decimal.Decimal
	minOrderQty decimal.Decimal
}

func main() {
	csvPath := "Catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Decodificar ISO-8859-1: %v\n", err)
			os.Exit(1)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = ';'
	reader.FieldsPerRecord = 6
	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsear CSV: %v\n", err)
		os.Exit(1)
	}

	var rows []productRow
	for i, rec := range records {
		// Saltar la fila de encabezado si viene en el exporte
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku") {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: %v\n", i+1, err)
			os.Exit(1)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene filas de productos")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", "00004_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- +goose Up\n")
	out.WriteString("-- Catálogo de productos generado desde el exporte del sistema administrativo\n")
	out.WriteString("INSERT INTO products (id, sku, name, cost, tax_rate, safety_stock, min_order_qty) VALUES\n")
	for i, r := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s', %s, %s, %s, %s)%s\n",
			uuid.NewString(), escapeSQL(r.sku), escapeSQL(r.name),
			r.cost, r.taxRate, r.safetyStock, r.minOrderQty, sep)
	}
	out.WriteString("ON CONFLICT (sku) DO UPDATE SET\n")
	out.WriteString("  name = EXCLUDED.name, cost = EXCLUDED.cost, tax_rate = EXCLUDED.tax_rate,\n")
	out.WriteString("  safety_stock = EXCLUDED.safety_stock, min_order_qty = EXCLUDED.min_order_qty,\n")
	out.WriteString("  updated_at = now();\n\n")
	out.WriteString("-- +goose Down\n")
	out.WriteString("-- El seed es idempotente; no se revierte para no borrar catálogo con historial.\n")
	out.WriteString("SELECT 1;\n")

	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

func parseRow(rec []string) (productRow, error) {
	sku := strings.TrimSpace(rec[0])
	name := strings.TrimSpace(rec[1])
	if sku == "" || name == "" {
		return productRow{}, fmt.Errorf("sku y nombre son obligatorios")
	}
	nums := make([]decimal.Decimal, 4)
	for i, field := range rec[2:6] {
		// Los exportes antiguos usan coma decimal
		normalized := strings.ReplaceAll(strings.TrimSpace(field), ",", ".")
		d, err := decimal.NewFromString(normalized)
		if err != nil {
			return productRow{}, fmt.Errorf("campo numérico %q: %w", field, err)
		}
		nums[i] = d
	}
	return productRow{
		sku: sku, name: name,
		cost: nums[0], taxRate: nums[1], safetyStock: nums[2], minOrderQty: nums[3],
	}, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
