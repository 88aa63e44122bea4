package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
)

// ImportFailure describes one CSV row that could not be imported
type ImportFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a CSV import run
type ImportReport struct {
	TotalRows int             `json:"totalRows"`
	Created   []string        `json:"created"` // raffle ids in file order
	Failures  []ImportFailure `json:"failures"`
}

// CSVImporter bulk-creates raffles from a CSV file through the raffle service
type CSVImporter struct {
	raffleService    services.RaffleService
	defaultOrganizer string
}

// NewCSVImporter creates a new CSVImporter. defaultOrganizer is used for rows
// without an organizer column value.
func NewCSVImporter(raffleService services.RaffleService, defaultOrganizer string) *CSVImporter {
	return &CSVImporter{
		raffleService:    raffleService,
		defaultOrganizer: defaultOrganizer,
	}
}

// ImportRaffles reads a header row followed by one raffle per row.
// Rows that fail validation are reported and skipped.
func (i *CSVImporter) ImportRaffles(ctx context.Context, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Read the header row
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column indices
	titleIdx := findColumnIndex(header, []string{"Title", "Name", "Raffle"})
	maxTicketsIdx := findColumnIndex(header, []string{"Max Tickets", "MaxTickets", "Capacity"})
	priceIdx := findColumnIndex(header, []string{"Ticket Price", "TicketPrice", "Price"})
	feeIdx := findColumnIndex(header, []string{"Fee Percent", "FeePercent", "Fee"})
	stakeIdx := findColumnIndex(header, []string{"Stake Percent", "StakePercent", "Stake"})
	organizerIdx := findColumnIndex(header, []string{"Organizer", "Owner"})
	oneIdx := findColumnIndex(header, []string{"One Per Account", "OnePerAccount"})

	for name, idx := range map[string]int{"title": titleIdx, "max tickets": maxTicketsIdx, "ticket price": priceIdx} {
		if idx == -1 {
			return nil, fmt.Errorf("%s column not found in CSV", name)
		}
	}

	report := &ImportReport{Created: []string{}, Failures: []ImportFailure{}}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			report.Failures = append(report.Failures, ImportFailure{Line: line, Reason: err.Error()})
			continue
		}
		report.TotalRows++

		req, organizer, err := i.parseRow(row, titleIdx, maxTicketsIdx, priceIdx, feeIdx, stakeIdx, organizerIdx, oneIdx)
		if err != nil {
			report.Failures = append(report.Failures, ImportFailure{Line: line, Reason: err.Error()})
			continue
		}

		raffle, err := i.raffleService.CreateRaffle(ctx, organizer, req)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failures = append(report.Failures, ImportFailure{Line: line, Reason: err.Error()})
			continue
		}
		report.Created = append(report.Created, raffle.ID)
	}

	return report, nil
}

func (i *CSVImporter) parseRow(row []string, titleIdx, maxTicketsIdx, priceIdx, feeIdx, stakeIdx, organizerIdx, oneIdx int) (*models.CreateRaffleRequest, string, error) {
	req := &models.CreateRaffleRequest{
		Title:       cell(row, titleIdx),
		TicketPrice: cell(row, priceIdx),
	}

	var err error
	if req.MaxTickets, err = strconv.Atoi(cell(row, maxTicketsIdx)); err != nil {
		return nil, "", fmt.Errorf("invalid max tickets %q", cell(row, maxTicketsIdx))
	}
	if req.FeePercent, err = atoiOrZero(cell(row, feeIdx)); err != nil {
		return nil, "", fmt.Errorf("invalid fee percent %q", cell(row, feeIdx))
	}
	if req.StakePercent, err = atoiOrZero(cell(row, stakeIdx)); err != nil {
		return nil, "", fmt.Errorf("invalid stake percent %q", cell(row, stakeIdx))
	}
	if v := strings.ToLower(cell(row, oneIdx)); v != "" {
		one := v == "yes" || v == "true" || v == "1" || v == "y"
		req.OnePerAccount = &one
	}

	organizer := cell(row, organizerIdx)
	if organizer == "" {
		organizer = i.defaultOrganizer
	}
	return req, organizer, nil
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
