package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/summitwealth/ledger"
	"github.com/summitwealth/ledger/inmem"
	"github.com/summitwealth/ledger/logrus"
	"github.com/summitwealth/ledger/simulator"
)

const testOwnerEmail = "alice@example.com"

func newTestServer(t *testing.T) *Server {
	store := inmem.NewStore()

	err := store.Users().CreateUser(&ledger.User{
		ID:        uuid.New(),
		Email:     testOwnerEmail,
		FullName:  "Alice Smith",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("could not create user: [%v]", err)
	}

	references := ledger.NewReferenceGenerator()
	prices := simulator.NewPriceSource(42)

	return NewServer(
		&Config{Port: 0},
		logrus.ConfigureStandardLogger("text", "error"),
		ledger.NewAccountService(store),
		ledger.NewTransferService(store, references, nil),
		ledger.NewTradingService(store, references, nil),
		ledger.NewWealthService(store, prices),
		ledger.NewStockAdminService(store),
	)
}

func request(
	t *testing.T,
	server *Server,
	method string,
	target string,
	body string,
	withOwner bool,
) *httptest.ResponseRecorder {
	t.Helper()

	httpRequest := httptest.NewRequest(
		method,
		target,
		strings.NewReader(body),
	)
	if withOwner {
		httpRequest.Header.Set(ownerEmailHeader, testOwnerEmail)
	}

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httpRequest)

	return recorder
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t)

	response := request(t, server, http.MethodGet, "/health", "", false)

	if response.Code != http.StatusOK {
		t.Errorf(
			"unexpected status\nexpected: [%v]\nactual:   [%v]",
			http.StatusOK,
			response.Code,
		)
	}
}

func TestServer_OpenAccount(t *testing.T) {
	server := newTestServer(t)

	response := request(
		t,
		server,
		http.MethodPost,
		"/api/accounts",
		`{"type":"CHECKING","initialDeposit":100}`,
		true,
	)

	if response.Code != http.StatusCreated {
		t.Fatalf(
			"unexpected status\nexpected: [%v]\nactual:   [%v]\nbody: %v",
			http.StatusCreated,
			response.Code,
			response.Body.String(),
		)
	}

	var account accountResponse
	if err := json.NewDecoder(response.Body).Decode(&account); err != nil {
		t.Fatalf("could not decode response: [%v]", err)
	}

	if account.Type != "CHECKING" {
		t.Errorf(
			"unexpected account type\nexpected: [%v]\nactual:   [%v]",
			"CHECKING",
			account.Type,
		)
	}
	if account.Status != "ACTIVE" {
		t.Errorf(
			"unexpected account status\nexpected: [%v]\nactual:   [%v]",
			"ACTIVE",
			account.Status,
		)
	}
}

func TestServer_MissingOwnerHeader(t *testing.T) {
	server := newTestServer(t)

	response := request(
		t,
		server,
		http.MethodPost,
		"/api/accounts",
		`{"type":"CHECKING","initialDeposit":100}`,
		false,
	)

	if response.Code != http.StatusUnauthorized {
		t.Errorf(
			"unexpected status\nexpected: [%v]\nactual:   [%v]",
			http.StatusUnauthorized,
			response.Code,
		)
	}
}

func TestServer_ErrorMapping(t *testing.T) {
	server := newTestServer(t)

	tests := map[string]struct {
		method         string
		target         string
		body           string
		expectedStatus int
	}{
		"unknown account is 404": {
			method:         http.MethodGet,
			target:         "/api/accounts/" + uuid.NewString(),
			expectedStatus: http.StatusNotFound,
		},
		"malformed account id is 400": {
			method:         http.MethodGet,
			target:         "/api/accounts/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		"unknown account type is 400": {
			method:         http.MethodPost,
			target:         "/api/accounts",
			body:           `{"type":"BROKERAGE","initialDeposit":100}`,
			expectedStatus: http.StatusBadRequest,
		},
		"malformed body is 400": {
			method:         http.MethodPost,
			target:         "/api/accounts",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
		"unknown trade reference is 404": {
			method:         http.MethodGet,
			target:         "/api/trades/STK-20250101-ABCDEF",
			expectedStatus: http.StatusNotFound,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			response := request(
				t,
				server,
				test.method,
				test.target,
				test.body,
				true,
			)

			if response.Code != test.expectedStatus {
				t.Errorf(
					"unexpected status\nexpected: [%v]\nactual:   [%v]\n"+
						"body: %v",
					test.expectedStatus,
					response.Code,
					response.Body.String(),
				)
			}
		})
	}
}
