// Package statement builds the billing statement of an invoice: it resolves
// each performance against the play catalog, prices it, sums the totals and
// renders the text report.
package statement

import (
	"fmt"
	"strings"

	"github.com/iliyamo/theater-billing/internal/model"
	"github.com/iliyamo/theater-billing/internal/money"
	"github.com/iliyamo/theater-billing/internal/pricing"
)

// Line holds the figures of one performance on a statement.
type Line struct {
	PlayID   string
	PlayName string
	Audience int
	Amount   int64 // cents
	Credits  int
}

// Result is a computed statement before rendering.
type Result struct {
	Customer      string
	Lines         []Line
	TotalAmount   int64 // cents
	VolumeCredits int
}

// PlayFor resolves the play of perf in catalog.
func PlayFor(catalog model.Catalog, perf model.Performance) (model.Play, error) {
	play, ok := catalog.Lookup(perf.PlayID)
	if !ok {
		return model.Play{}, &UnresolvedPlayReferenceError{PlayID: perf.PlayID}
	}
	return play, nil
}

// AmountFor returns the charge in cents of a single performance.
func AmountFor(perf model.Performance, play model.Play) (int64, error) {
	return pricing.Amount(perf, play)
}

// VolumeCreditsFor returns the credits earned by a single performance.
func VolumeCreditsFor(perf model.Performance, play model.Play) int {
	return pricing.VolumeCredits(perf, play)
}

// USD formats cents the way statement lines print them.
func USD(cents int64) string {
	return money.USD(cents)
}

// Compute prices every performance of inv in order and accumulates the
// totals.  The first lookup or pricing error aborts the computation; no
// partial result is returned.
func Compute(inv model.Invoice, catalog model.Catalog) (Result, error) {
	res := Result{
		Customer: inv.Customer,
		Lines:    make([]Line, 0, len(inv.Performances)),
	}
	for _, perf := range inv.Performances {
		play, err := PlayFor(catalog, perf)
		if err != nil {
			return Result{}, err
		}
		amount, err := AmountFor(perf, play)
		if err != nil {
			return Result{}, fmt.Errorf("performance %q: %w", perf.PlayID, err)
		}
		credits := VolumeCreditsFor(perf, play)

		res.TotalAmount += amount
		res.VolumeCredits += credits
		res.Lines = append(res.Lines, Line{
			PlayID:   perf.PlayID,
			PlayName: play.Name,
			Audience: perf.Audience,
			Amount:   amount,
			Credits:  credits,
		})
	}
	return res, nil
}

// Render formats a computed statement.  Every line, the last included, ends
// with "\n".
func Render(res Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statement for %s\n", res.Customer)
	for _, l := range res.Lines {
		fmt.Fprintf(&b, "  %s: %s (%d seats)\n", l.PlayName, USD(l.Amount), l.Audience)
	}
	fmt.Fprintf(&b, "Amount owed is %s\n", USD(res.TotalAmount))
	fmt.Fprintf(&b, "You earned %d credits\n", res.VolumeCredits)
	return b.String()
}

// Statement returns the printable statement of inv.
func Statement(inv model.Invoice, catalog model.Catalog) (string, error) {
	res, err := Compute(inv, catalog)
	if err != nil {
		return "", err
	}
	return Render(res), nil
}

// TotalAmount returns the sum of all performance charges of inv in cents.
func TotalAmount(inv model.Invoice, catalog model.Catalog) (int64, error) {
	res, err := Compute(inv, catalog)
	if err != nil {
		return 0, err
	}
	return res.TotalAmount, nil
}

// TotalVolumeCredits returns the credits earned across inv.  Only an
// unresolved play reference fails it; unknown genres earn base credits.
func TotalVolumeCredits(inv model.Invoice, catalog model.Catalog) (int, error) {
	total := 0
	for _, perf := range inv.Performances {
		play, err := PlayFor(catalog, perf)
		if err != nil {
			return 0, err
		}
		total += VolumeCreditsFor(perf, play)
	}
	return total, nil
}
