package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quotebuilder/models"
)

func TestFileStore_ReadsExistingDataFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		ProductsFile: `{"ventana": {"nombre": "Ventana", "caracteristicasPermanentes": {}, "caracteristicasSeleccionables": {}}}`,
		ClientsFile:  `{"clientes": [{"id": "c1", "nombre": "Ana", "tipoCliente": "particular"}]}`,
		QuotesFile: `{"presupuestos": [{"id": "q1", "numero": "20240635", "version": 1, "estado": "borrador",
			"lineas": [{"id": "l1", "tipo": "nuevo", "descripcion": "Portes", "caracteristicas": {"medida": "2m"}, "cantidad": 1, "precio": 40}]}]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	products, err := st.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	if products["ventana"].ID != "ventana" {
		t.Errorf("product id = %q, want it filled from the key", products["ventana"].ID)
	}

	clients, err := st.LoadClients(ctx)
	if err != nil || len(clients) != 1 || clients[0].Name != "Ana" {
		t.Errorf("LoadClients = %+v, %v", clients, err)
	}

	quotes, err := st.LoadQuotes(ctx)
	if err != nil {
		t.Fatalf("LoadQuotes: %v", err)
	}
	line := quotes[0].Lines[0]
	if !line.IsLegacy() || line.LegacyDescription != "Portes" || line.LegacyCharacteristics["medida"] != "2m" {
		t.Errorf("legacy line not preserved: %+v", line)
	}
}

func TestFileStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := st.SaveClients(ctx, []models.Client{{ID: "c1", Name: "Ana"}}); err != nil {
			t.Fatalf("SaveClients: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, ClientsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `{`+"\n"+`  "clientes": [`) {
		t.Errorf("clients file = %s", data)
	}
}

func TestFileStore_Errors(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := st.LoadQuotes(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("LoadQuotes err = %v, want context.Canceled", err)
		}
		if err := st.SaveQuotes(ctx, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("SaveQuotes err = %v, want context.Canceled", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, QuotesFile), []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := st.LoadQuotes(context.Background())
		if err == nil || !strings.Contains(err.Error(), "decode "+QuotesFile) {
			t.Errorf("err = %v, want a decode error", err)
		}
	})
}
