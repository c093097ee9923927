// seed_listings genera un script SQL para poblar productos y listings a partir
// del informe de ofertas abiertas del marketplace (TSV codificado en
// ISO-8859-1, columnas item-name, seller-sku, price, quantity, asin1).
//
// Uso: go run ./cmd/seed_listings -backend <backend_id> -marketplace <marketplace_id> [informe.txt]
// Por defecto busca open_listings.txt en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/010_seed_listings.sql
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type reportRow struct {
	title    string
	sku      string
	price    string
	quantity string
	asin     string
}

func main() {
	backendID := flag.String("backend", "", "ID del backend destino (requerido)")
	marketplaceID := flag.String("marketplace", "", "ID del marketplace destino (requerido)")
	currency := flag.String("currency", "EUR", "moneda de los precios del informe")
	flag.Parse()

	if *backendID == "" || *marketplaceID == "" {
		fmt.Fprintln(os.Stderr, "uso: seed_listings -backend <id> -marketplace <id> [informe.txt]")
		os.Exit(1)
	}

	reportPath := "open_listings.txt"
	if flag.NArg() > 0 {
		reportPath = flag.Arg(0)
	}
	f, err := os.Open(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir informe: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// El informe llega en ISO-8859-1; los títulos traen acentos.
	scanner := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	var header []string
	idx := map[string]int{}
	var rows []reportRow
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			for i, name := range fields {
				idx[strings.ToLower(strings.TrimSpace(name))] = i
			}
			continue
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}
		row := reportRow{
			title:    get("item-name"),
			sku:      get("seller-sku"),
			price:    get("price"),
			quantity: get("quantity"),
			asin:     get("asin1"),
		}
		if row.sku == "" || row.price == "" {
			continue
		}
		if row.quantity == "" {
			row.quantity = "0"
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Leer informe: %v\n", err)
		os.Exit(1)
	}
	if header == nil {
		fmt.Fprintln(os.Stderr, "Informe vacío o sin cabecera")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "010_seed_listings.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Productos y listings importados del informe de ofertas abiertas\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(reportPath))

	for _, row := range rows {
		sku := escapeSQL(row.sku)
		title := escapeSQL(row.title)
		asin := escapeSQL(row.asin)

		// 1. Producto por SKU, sin tocar los existentes
		fmt.Fprintf(out, "INSERT INTO products (id, sku, asin, virtual_available, change_prices, created_at, updated_at)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', 0, false, now(), now())\n", sku, asin)
		out.WriteString("ON CONFLICT (sku) DO NOTHING;\n")

		// 2. Listing con subquery al producto; el precio base arranca igual al publicado
		fmt.Fprintf(out, "INSERT INTO marketplace_listings (id, product_id, backend_id, marketplace_id, sku, title, status,\n")
		fmt.Fprintf(out, "  price, base_price, ship_price, currency, change_prices, stock, created_at, updated_at)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), id, '%s', '%s', '%s', '%s', 'Active',\n",
			escapeSQL(*backendID), escapeSQL(*marketplaceID), sku, title)
		fmt.Fprintf(out, "  %s, %s, 0, '%s', false, %s, now(), now()\n",
			row.price, row.price, escapeSQL(*currency), row.quantity)
		fmt.Fprintf(out, "FROM products WHERE sku = '%s'\n", sku)
		out.WriteString("ON CONFLICT (backend_id, sku, marketplace_id) DO UPDATE SET price = EXCLUDED.price, stock = EXCLUDED.stock;\n\n")
	}

	fmt.Printf("Generado %s: %d listings\n", outPath, len(rows))
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
