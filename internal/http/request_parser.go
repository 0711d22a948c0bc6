package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/core"
	"ledger/internal/installment"
	"ledger/internal/query"
	"ledger/internal/services"
)

// HeaderOwnerID identifies the ledger owner. Authentication happens upstream.
const HeaderOwnerID = "X-Owner-ID"

const maxBodyBytes = 64 << 10

var errMissingOwner = errors.New("missing " + HeaderOwnerID + " header")

func ownerID(r *http.Request) (string, error) {
	id := sanitizeInput(r.Header.Get(HeaderOwnerID))
	if id == "" {
		return "", errMissingOwner
	}
	return id, nil
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("malformed request body: trailing data")
	}
	return nil
}

// parseDateOr parses YYYY-MM-DD, returning fallback for an empty string.
func parseDateOr(s string, fallback core.Date) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, core.Invalid("date", "must be YYYY-MM-DD")
	}
	return d, nil
}

func (req purchaseRequest) toPurchase(owner string, today core.Date) (installment.Purchase, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return installment.Purchase{}, err
	}
	date, err := parseDateOr(req.Date, today)
	if err != nil {
		return installment.Purchase{}, err
	}
	p := installment.Purchase{
		OwnerID:          owner,
		BaseAmount:       amount,
		Category:         core.Category(sanitizeInput(req.Category)),
		Bank:             sanitizeInput(req.Bank),
		PaymentMethod:    core.PaymentMethod(sanitizeInput(req.PaymentMethod)),
		Description:      sanitizeInput(req.Description),
		StartDate:        date,
		InstallmentCount: req.Installments,
	}
	if strings.TrimSpace(req.InterestRate) != "" {
		rate, err := core.ParseRate(req.InterestRate)
		if err != nil {
			return installment.Purchase{}, err
		}
		p.InterestRatePercent = &rate
	}
	return p, nil
}

func (req incomeRequest) toIncome(owner string, today core.Date) (services.IncomeRequest, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return services.IncomeRequest{}, err
	}
	date, err := parseDateOr(req.Date, today)
	if err != nil {
		return services.IncomeRequest{}, err
	}
	return services.IncomeRequest{
		OwnerID:     owner,
		Amount:      amount,
		Category:    core.Category(sanitizeInput(req.Category)),
		Bank:        sanitizeInput(req.Bank),
		Description: sanitizeInput(req.Description),
		OccursOn:    date,
	}, nil
}

func (req patchRequest) toPatch() (core.EntryPatch, error) {
	var p core.EntryPatch
	if req.Kind != nil {
		k := core.Kind(sanitizeInput(*req.Kind))
		p.Kind = &k
	}
	if req.Amount != nil {
		m, err := core.ParseMoney(*req.Amount)
		if err != nil {
			return core.EntryPatch{}, err
		}
		p.Amount = &m
	}
	if req.Category != nil {
		c := core.Category(sanitizeInput(*req.Category))
		p.Category = &c
	}
	if req.Bank != nil {
		b := sanitizeInput(*req.Bank)
		p.Bank = &b
	}
	if req.PaymentMethod != nil {
		pm := core.PaymentMethod(sanitizeInput(*req.PaymentMethod))
		p.PaymentMethod = &pm
	}
	if req.Description != nil {
		d := sanitizeInput(*req.Description)
		p.Description = &d
	}
	if req.Date != nil {
		d, err := core.ParseDate(strings.TrimSpace(*req.Date))
		if err != nil {
			return core.EntryPatch{}, core.Invalid("date", "must be YYYY-MM-DD")
		}
		p.OccursOn = &d
	}
	return p, nil
}

// parseStatementQuery reads a statement filter from the query string.
// category may repeat or hold a comma-separated list; month needs year.
func parseStatementQuery(v url.Values) (query.Spec, error) {
	var spec query.Spec
	for _, raw := range v["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = sanitizeInput(c); c != "" {
				spec.Categories = append(spec.Categories, core.Category(c))
			}
		}
	}

	year, err := atoiParam(v, "year")
	if err != nil {
		return query.Spec{}, err
	}
	month, err := atoiParam(v, "month")
	if err != nil {
		return query.Spec{}, err
	}
	switch {
	case month != 0 && year == 0:
		return query.Spec{}, core.Invalid("month", "requires year")
	case month != 0:
		spec.YearMonth = &query.YearMonth{Year: year, Month: month}
	default:
		spec.Year = year
	}

	spec.Bank = sanitizeInput(v.Get("bank"))
	spec.PaymentMethod = core.PaymentMethod(sanitizeInput(v.Get("payment_method")))
	if f := strings.TrimSpace(v.Get("future")); f != "" {
		future, err := strconv.ParseBool(f)
		if err != nil {
			return query.Spec{}, core.Invalid("future", "must be a boolean")
		}
		spec.FutureOnly = future
	}
	return spec, nil
}

func atoiParam(v url.Values, name string) (int, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, core.Invalid(name, "must be an integer")
	}
	return n, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
