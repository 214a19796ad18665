package garagecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/garage-ledger/backend/internal/importer"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Column indices of the timesheet CSV format.
const (
	Project = iota
	User
	Begin
	Duration
	Rate
	InternalRate
	Currency
	Note
)

// Parse reads a timesheet CSV file.
//
// All lines must use the same ISO 4217 currency, multi-currency files
// are rejected.
func Parse(f io.Reader) ([]importer.TimesheetPreview, error) {
	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	var timesheets []importer.TimesheetPreview
	var fileCurrency string

	// Skip the first line
	_, err := reader.Read()
	if err == io.EOF {
		return []importer.TimesheetPreview{}, nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not read line in CSV: %w", err))
		}

		if record[Project] == "" {
			return csvReadError(reader, errors.New("no project is set for the timesheet"))
		}

		if record[User] == "" {
			return csvReadError(reader, errors.New("no user is set for the timesheet"))
		}

		begin, err := time.Parse(time.RFC3339, record[Begin])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse time: %w", err))
		}

		duration, err := strconv.ParseInt(record[Duration], 10, 64)
		if err != nil {
			return csvReadError(reader, errors.New("duration could not be parsed to a number of seconds"))
		}
		if duration < 0 {
			return csvReadError(reader, errors.New("the duration for a timesheet must not be negative"))
		}

		rate, err := decimal.NewFromString(record[Rate])
		if err != nil {
			return csvReadError(reader, errors.New("rate could not be parsed to a decimal"))
		}

		internalRate, err := decimal.NewFromString(record[InternalRate])
		if err != nil {
			return csvReadError(reader, errors.New("internal rate could not be parsed to a decimal"))
		}

		unit, err := currency.ParseISO(record[Currency])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("'%s' is not an ISO 4217 currency", record[Currency]))
		}

		if fileCurrency == "" {
			fileCurrency = unit.String()
		} else if fileCurrency != unit.String() {
			return csvReadError(reader, fmt.Errorf("all lines must use the same currency, found both %s and %s", fileCurrency, unit.String()))
		}

		t := importer.TimesheetPreview{
			Timesheet: models.Timesheet{
				Begin:        begin,
				Duration:     duration,
				Rate:         rate,
				InternalRate: internalRate,
				Note:         record[Note],
			},
			ProjectName: record[Project],
			UserName:    record[User],
		}

		timesheets = append(timesheets, t)
	}

	return timesheets, nil
}

// csvReadError returns the an error with the format string, including the line of the input
// the error occurred in in the message.
func csvReadError(r *csv.Reader, err error) ([]importer.TimesheetPreview, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(1)

	return []importer.TimesheetPreview{}, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
