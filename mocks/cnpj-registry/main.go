package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8081"
	defaultLatencyMs = "50"
)

type CompanyResponse struct {
	CNPJRaiz        string  `json:"cnpj_raiz"`
	RazaoSocial     *string `json:"razao_social"`
	Estabelecimento struct {
		CNPJ string `json:"cnpj"`
		Tipo string `json:"tipo"`
	} `json:"estabelecimento"`
	AtualizadoEm string `json:"atualizado_em"`
}

type ErrorResponse struct {
	Status   int    `json:"status"`
	Titulo   string `json:"titulo"`
	Detalhes string `json:"detalhes"`
}

var latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/cnpj/", handleLookup)

	log.Printf("mock CNPJ registry listening on :%s (latency %dms)", port, latencyMs)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "cnpj-registry",
	})
}

// knownCompanies backs the demo tenants created by the seeder.
var knownCompanies = map[string]string{
	"11222333000181": "ACME INDUSTRIA E COMERCIO LTDA",
	"47960950000121": "MAGAZINE LUIZA S/A",
	"60701190000104": "ITAU UNIBANCO S.A.",
	"33000167000101": "PETROLEO BRASILEIRO S A PETROBRAS",
}

// Magic tax ids that let tests drive each failure path of the client.
const (
	notFoundTaxID    = "99999999000191"
	noNameTaxID      = "11111111000191"
	outageTaxID      = "22222222000191"
	rateLimitedTaxID = "33333333000191"
	slowTaxID        = "44444444000191"
)

func handleLookup(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	if r.Method != http.MethodGet {
		sendError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	digits := strings.TrimPrefix(r.URL.Path, "/cnpj/")
	if len(digits) != 14 || strings.Trim(digits, "0123456789") != "" {
		sendError(w, "CNPJ inválido", http.StatusBadRequest)
		return
	}

	switch digits {
	case notFoundTaxID:
		sendError(w, "CNPJ não encontrado", http.StatusNotFound)
		return
	case outageTaxID:
		sendError(w, "serviço indisponível", http.StatusServiceUnavailable)
		return
	case rateLimitedTaxID:
		sendError(w, "muitas requisições", http.StatusTooManyRequests)
		return
	case slowTaxID:
		time.Sleep(30 * time.Second)
	}

	resp := CompanyResponse{
		CNPJRaiz:     digits[:8],
		AtualizadoEm: time.Now().UTC().Format(time.RFC3339),
	}
	resp.Estabelecimento.CNPJ = digits
	resp.Estabelecimento.Tipo = "Matriz"
	if digits != noNameTaxID {
		name := companyName(digits)
		resp.RazaoSocial = &name
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
	log.Printf("lookup %s -> %v", digits, resp.RazaoSocial != nil)
}

// companyName returns the known name or a deterministic one derived from the digits.
func companyName(digits string) string {
	if name, ok := knownCompanies[digits]; ok {
		return name
	}
	hash := sha256.Sum256([]byte(digits))
	prefixes := []string{"ALFA", "BRAVO", "CENTRAL", "DELTA", "ESTRELA", "FENIX", "GLOBAL", "HORIZONTE"}
	sectors := []string{"TECNOLOGIA", "COMERCIO", "SERVICOS", "LOGISTICA", "ALIMENTOS", "ENGENHARIA"}
	return fmt.Sprintf("%s %s LTDA",
		prefixes[int(hash[0])%len(prefixes)],
		sectors[int(hash[1])%len(sectors)],
	)
}

func sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:   code,
		Titulo:   http.StatusText(code),
		Detalhes: message,
	})
	log.Printf("error response: %d - %s", code, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
