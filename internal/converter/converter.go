package converter

import (
	stderrors "errors"

	"github.com/mcncl/convert-translations/internal/flatten"
	"github.com/mcncl/convert-translations/internal/models"
	"github.com/mcncl/convert-translations/internal/reference"
	"go.uber.org/zap"
)

// ErrNothingToExport is returned by JSONToCSV when only needed keys were
// requested and none remain. Callers treat it as a skip, not a failure.
var ErrNothingToExport = stderrors.New("no needed translations")

// Converter runs the JSON <-> CSV pipeline. It holds no state between calls
// and is safe for concurrent use.
type Converter struct {
	logger *zap.Logger
}

// NewConverter creates a Converter that logs through logger. A nil logger
// disables logging.
func NewConverter(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{logger: logger}
}

// JSONToCSV flattens source into rows. With a reference the value column
// carries differing reference translations, and onlyNeeded drops keys the
// reference already translates differently. Without a reference onlyNeeded
// filters nothing but still turns an empty result into ErrNothingToExport.
func (c *Converter) JSONToCSV(source models.Value, ref *models.Value, onlyNeeded bool) ([]models.Row, error) {
	flat, report := flatten.Flatten(source)
	c.logReport("source", report)
	c.logger.Debug("flattened source", zap.Int("keys", flat.Len()))

	var refFlat *flatten.FlatMap
	if ref != nil {
		var refReport flatten.Report
		refFlat, refReport = flatten.Flatten(*ref)
		c.logReport("reference", refReport)
		c.logger.Debug("flattened reference", zap.Int("keys", refFlat.Len()))

		if onlyNeeded {
			before := flat.Len()
			flat = reference.Filter(flat, refFlat)
			c.logger.Debug("filtered against reference",
				zap.Int("kept", flat.Len()),
				zap.Int("dropped", before-flat.Len()),
			)
		}
	}

	rows := reference.ProjectToRows(flat, refFlat)
	if onlyNeeded && len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	return rows, nil
}

// CSVToJSON rebuilds a tree from rows, taking each row's value when it is
// non-empty and its english text otherwise.
func (c *Converter) CSVToJSON(rows []models.Row) models.Value {
	flat := flatten.NewFlatMap()
	for _, row := range rows {
		if flat.Set(row.Key, row.Resolved()) {
			c.logger.Warn("duplicate key in rows, keeping the last", zap.String("path", row.Key))
		}
	}

	value, report := flatten.Unflatten(flat)
	c.logReport("rows", report)
	c.logger.Debug("unflattened rows", zap.Int("rows", len(rows)))
	return value
}

func (c *Converter) logReport(stage string, report flatten.Report) {
	for _, path := range report.Overwritten {
		c.logger.Warn("path written twice, keeping the last value",
			zap.String("stage", stage),
			zap.String("path", path),
		)
	}
	for _, path := range report.Conflicts {
		c.logger.Warn("path conflicts with an existing structure",
			zap.String("stage", stage),
			zap.String("path", path),
		)
	}
}
