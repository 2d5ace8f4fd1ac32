package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pos2cmine/core/pos"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// Probe names accepted by --test.
const (
	probePoS      = "PoS"
	probeMe       = "me"
	probeUsers    = "users"
	probeVentures = "ventures"
	probeCustom   = "custom"
)

var probes = []string{probePoS, probeMe, probeUsers, probeVentures, probeCustom}

func probeNames() string {
	return strings.Join(probes, ", ")
}

// parseProbe matches name case-insensitively against the known probes.
func parseProbe(name string) (string, error) {
	for _, p := range probes {
		if strings.EqualFold(p, name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown test %q (valid: %s)", name, probeNames())
}

// probe fetches one kind of data from PoS or CMINE and writes it to w.
func (a *app) probe(ctx context.Context, w io.Writer, name, format string) error {
	name, err := parseProbe(name)
	if err != nil {
		return err
	}
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unknown format %q (valid: %s, %s)", format, formatJSON, formatYAML)
	}
	a.logger.Debug("Running probe", zap.String("test", name))

	var out any
	if name == probePoS {
		records := []pos.Record{}
		for rec, err := range a.source.Records(ctx) {
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		a.logger.Info("PoS records", zap.Int("count", len(records)))
		out = records
	} else {
		session, err := a.target.Authenticate(ctx)
		if err != nil {
			return err
		}
		switch name {
		case probeMe:
			id, err := session.CurrentUserID(ctx)
			if err != nil {
				return err
			}
			out = map[string]int64{"id": id}
		case probeUsers:
			if out, err = session.Users(ctx); err != nil {
				return err
			}
		case probeVentures:
			if out, err = session.Ventures(ctx); err != nil {
				return err
			}
		case probeCustom:
			if out, err = session.CustomizableAttributes(ctx); err != nil {
				return err
			}
		}
	}

	return writeOutput(w, format, out)
}

// writeOutput encodes v as indented JSON or as YAML. YAML output goes through
// JSON first so both formats share the API field names.
func writeOutput(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if format != formatYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
