// Package output writes the generated artifacts: CSV tables, the raw
// JSONL stream, and the config echo. Schema mirroring lets a run adopt
// the column layout of an existing export instead of the built-in one.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// ReadCSVHeader returns the first row of a CSV file. A missing or
// empty file yields nil without error, so callers can fall back to the
// built-in layout.
func ReadCSVHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrReadSchema, path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadSchema, path, err)
	}
	return header, nil
}

// EnsureColumns restricts a table to exactly the given columns in
// order; columns the table lacks come through as nulls.
func EnsureColumns(t *dataset.Table, cols []string) *dataset.Table {
	return t.Select(cols)
}

// DefaultProcessedColumns is the built-in layout of the flat event
// export, used when no schema-mirror directory is given.
var DefaultProcessedColumns = []string{
	gen.ColEventTimestamp,
	gen.ColEventName,
	gen.ColUser,
	gen.ColSession,
	gen.ColEventDatetime,
	gen.ColEventDate,
	gen.ColEventTime,
	gen.ColWeekday,
	gen.ColDaytime,
	gen.ColIsWeekend,
	gen.ColAppVersion,
	gen.ColCountry,
	gen.ColOS,
	gen.ColSessionDurSec,
	gen.ColSessionDurMin,
	gen.ColSessionStart,
	gen.ColSessionEnd,
	gen.ColCharacter,
	gen.ColTier,
	gen.ColQuestionIndex,
	gen.ColCumulativeQI,
	gen.ColAnsweredWrong,
	gen.ColQuestionAddress,
	gen.ColMenuName,
	gen.ColSpentTo,
	gen.ColShopItem,
	gen.ColCurrencyName,
	gen.ColEarnedAmount,
	gen.ColSpentAmount,
	gen.ColGold,
	gen.ColMiniGameRI,
	gen.ColAdNetwork,
	gen.ColAdUnit,
	gen.ColAdInstance,
	gen.ColAdID,
	gen.ColAdErrorCode,
	gen.ColServerDelay,
	gen.ColMarketingName,
	gen.ColOSVersion,
	gen.ColPPAccepted,
	gen.ColVideoStart,
	gen.ColVideoFinished,
	gen.ColEntered,
	gen.ColShown,
	gen.ColOpened,
	gen.ColReturn,
	gen.ColClosed,
	gen.ColDrag,
	gen.ColTutorialVideo,
}
