package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"quotebuilder/models"
)

func TestClientService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newTestStore(t))

	created, err := svc.Create(ctx, models.Client{
		Name:  "  beatriz ",
		TaxID: " b12345678 ",
		Email: "beatriz@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if created.Name != "beatriz" || created.TaxID != "B12345678" || created.Type != models.ClientPrivate {
		t.Errorf("created = %+v, want trimmed name, upper-case tax id and default type", created)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("Get = %+v, want %+v", got, created)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != testClient.ID || list[1].ID != created.ID {
		t.Errorf("List order = %v, want Ana García before beatriz", list)
	}

	created.Type = models.ClientCompany
	updated, err := svc.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Type != models.ClientCompany {
		t.Errorf("Type = %s, want empresa", updated.Type)
	}
	if _, err := svc.Update(ctx, "nope", created); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestValidateClient(t *testing.T) {
	tests := []struct {
		name   string
		client models.Client
		expect []string
	}{
		{"valid", models.Client{Name: "Ana", Type: models.ClientPrivate}, nil},
		{"valid_company_with_email", models.Client{Name: "Cristalería SL", Email: "info@cristaleria.es", Type: models.ClientCompany}, nil},
		{"missing_name", models.Client{Type: models.ClientPrivate}, []string{"nombre: a name is required"}},
		{"bad_email", models.Client{Name: "Ana", Email: "ana@", Type: models.ClientPrivate}, []string{"email: must be a valid email address"}},
		{"bad_type", models.Client{Name: "Ana", Type: "autonomo"}, []string{"tipoCliente: must be a valid value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClient(tt.client)
			if tt.expect == nil {
				if err != nil {
					t.Errorf("ValidateClient() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateClient() = %v, want ValidationError", err)
			}
			if !reflect.DeepEqual(ve.Messages, tt.expect) {
				t.Errorf("Messages = %q, want %q", ve.Messages, tt.expect)
			}
		})
	}
}

func TestClientService_EditDoesNotTouchQuotes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	clients := NewClientService(st)
	quotes := NewQuoteService(st)

	q, err := quotes.Create(ctx, QuoteInput{ClientID: testClient.ID})
	if err != nil {
		t.Fatalf("Create quote: %v", err)
	}

	renamed := testClient
	renamed.Name = "Ana María"
	if _, err := clients.Update(ctx, testClient.ID, renamed); err != nil {
		t.Fatalf("Update client: %v", err)
	}

	stored, err := quotes.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("Get quote: %v", err)
	}
	if stored.Client != "Ana García" || stored.ClientSnapshot == nil || stored.ClientSnapshot.Name != "Ana" {
		t.Errorf("quote client = %q %+v, want the original snapshot", stored.Client, stored.ClientSnapshot)
	}
}
