// Command settle computes balances and a settlement plan from a JSON file of trip
// expenses, without a server or database.
//
// Usage:
//
//	settle [-json] trip.json
//	settle - < trip.json
//
// Input:
//
//	{
//	  "participants": ["ada", "ben", "cleo"],
//	  "expenses": [
//	    {"payer": "ada", "amount": "30.01", "beneficiaries": ["ada", "ben", "cleo"]},
//	    {"payer": "ben", "amount": "10", "shares": [{"participant": "cleo", "amount": "10"}]}
//	  ],
//	  "payments": [{"from": "cleo", "to": "ada", "amount": "5.00"}]
//	}
//
// Amounts are decimal strings or numbers with at most two decimal places.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/settlement"
)

type tripFile struct {
	Participants []string      `json:"participants"`
	Expenses     []expenseLine `json:"expenses"`
	Payments     []paymentLine `json:"payments"`
}

type expenseLine struct {
	Payer         string          `json:"payer"`
	Amount        decimal.Decimal `json:"amount"`
	Beneficiaries []string        `json:"beneficiaries"`
	Shares        []shareLine     `json:"shares"`
	Description   string          `json:"description"`
	Activity      string          `json:"activity"`
}

type shareLine struct {
	Participant string          `json:"participant"`
	Amount      decimal.Decimal `json:"amount"`
}

type paymentLine struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type report struct {
	Balances  []balanceLine  `json:"balances"`
	Transfers []transferLine `json:"transfers"`
}

type balanceLine struct {
	Participant string `json:"participant"`
	Paid        string `json:"paid"`
	Share       string `json:"share"`
	Net         string `json:"net"`
}

type transferLine struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "settle:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("settle", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: settle [-json] <trip.json | ->")
	}

	in := stdin
	if name := fs.Arg(0); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var trip tripFile
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&trip); err != nil {
		return fmt.Errorf("decode trip: %w", err)
	}

	l, err := load(trip)
	if err != nil {
		return err
	}

	plan, err := settlement.Plan(l.Balances())
	if err != nil {
		return err
	}

	r := buildReport(l.Summaries(), plan)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return printReport(stdout, r)
}

// load replays the file into a ledger, expenses first and then payments.
func load(trip tripFile) (*ledger.Ledger, error) {
	l := ledger.New(ledger.WithRoster(trip.Participants...))

	for i, e := range trip.Expenses {
		amount, err := money.FromDecimal(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
		in := ledger.ExpenseInput{
			Amount:        amount,
			Payer:         e.Payer,
			Beneficiaries: e.Beneficiaries,
			Description:   e.Description,
			ActivityID:    e.Activity,
		}
		if len(e.Shares) > 0 {
			in.Policy = models.SplitWeighted
			for j, s := range e.Shares {
				cents, err := money.FromDecimal(s.Amount)
				if err != nil {
					return nil, fmt.Errorf("expense %d share %d: %w", i+1, j+1, err)
				}
				in.Shares = append(in.Shares, models.Share{Participant: s.Participant, Amount: cents})
			}
		}
		if _, err := l.AddExpense(in); err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
	}

	for i, p := range trip.Payments {
		amount, err := money.FromDecimal(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", i+1, err)
		}
		if _, err := l.RecordPayment(p.From, p.To, amount, p.Description); err != nil {
			return nil, fmt.Errorf("payment %d: %w", i+1, err)
		}
	}
	return l, nil
}

func buildReport(summaries []ledger.MemberSummary, plan []models.Transfer) report {
	r := report{
		Balances:  make([]balanceLine, len(summaries)),
		Transfers: make([]transferLine, len(plan)),
	}
	for i, s := range summaries {
		r.Balances[i] = balanceLine{
			Participant: s.Participant,
			Paid:        money.FormatCents(s.Paid),
			Share:       money.FormatCents(s.Share),
			Net:         money.FormatCents(s.Net),
		}
	}
	for i, t := range plan {
		r.Transfers[i] = transferLine{From: t.From, To: t.To, Amount: money.FormatCents(t.Amount)}
	}
	return r
}

func printReport(w io.Writer, r report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tSHARE\tNET\t")
	for _, b := range r.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", b.Participant, b.Paid, b.Share, b.Net)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(r.Transfers) == 0 {
		fmt.Fprintln(w, "Everyone is settled.")
		return nil
	}
	fmt.Fprintln(w, "Transfers:")
	for _, t := range r.Transfers {
		fmt.Fprintf(w, "  %s -> %s  %s\n", t.From, t.To, t.Amount)
	}
	return nil
}
