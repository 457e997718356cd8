package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	indexDateLayout = "20060102"
	fieldLimitKey   = "index.mapping.total_fields.limit"
)

// IndexName returns the daily index for mode: <dataset>-<mode>-YYYYMMDD in UTC.
func IndexName(dataset string, mode model.Mode, t time.Time) string {
	return fmt.Sprintf("%s-%s-%s", dataset, mode, t.UTC().Format(indexDateLayout))
}

// IndexBody returns the index definition for mode: the configured mapping
// document plus the field limit setting. It returns nil when neither is set.
func (c Config) IndexBody(mode model.Mode) ([]byte, error) {
	errFactory := errors.New()

	body := map[string]any{}

	if path, ok := c.Mappings[mode.String()]; ok && path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errFactory.Wrap(ErrReadMapping, err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errFactory.Wrap(ErrReadMapping, err).WithMessage("parsing " + path)
		}
		_, hasMappings := doc["mappings"]
		_, hasSettings := doc["settings"]
		if hasMappings || hasSettings {
			body = doc
		} else if len(doc) > 0 {
			body["mappings"] = doc
		}
	}

	if c.FieldLimit > 0 {
		settings, _ := body["settings"].(map[string]any)
		if settings == nil {
			settings = map[string]any{}
		}
		settings[fieldLimitKey] = c.FieldLimit
		body["settings"] = settings
	}

	if len(body) == 0 {
		return nil, nil
	}

	out, err := json.Marshal(body)
	if err != nil {
		return nil, errFactory.Wrap(ErrEncode, err)
	}

	return out, nil
}

// Document is one flat exported record.
type Document map[string]any

// BuildDocument flattens a snapshot into a Document. Status snapshots
// contribute the status keywords only; global snapshots contribute every
// metric. Values that parse as numbers are stored as numbers.
func BuildDocument(snap model.Snapshot, info model.ServerInfo, runID string, ts time.Time) (Document, error) {
	doc := Document{}

	switch snap.Mode {
	case model.ModeStatus:
		if snap.Status == nil {
			return nil, errors.New().WithMessage(ErrUnsupportedMode, "status snapshot without payload")
		}
		for _, k := range model.StatusKeywords {
			if v, ok := snap.Status.Values[k]; ok {
				doc[k] = typedValue(v)
			}
		}
	case model.ModeGlobal:
		if snap.Global == nil {
			return nil, errors.New().WithMessage(ErrUnsupportedMode, "global snapshot without payload")
		}
		for _, k := range snap.Global.Keys() {
			v, _ := snap.Global.Get(k)
			doc[k] = typedValue(v)
		}
	default:
		return nil, errors.New().WithData(ErrUnsupportedMode, snap.Mode.String())
	}

	doc["host"] = info.Hostname
	doc["version"] = info.Version
	doc["mode"] = snap.Mode.String()
	doc["@timestamp"] = ts.UTC().Format(time.RFC3339)
	if runID != "" {
		doc["run_id"] = runID
	}

	return doc, nil
}

// groupedNumber matches numbers with thousands separators, as produced by
// MySQL FORMAT().
var groupedNumber = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

func typedValue(v string) any {
	if groupedNumber.MatchString(v) {
		v = strings.ReplaceAll(v, ",", "")
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}

	return v
}
