// Shared helpers for daystore CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/halcyon-apps/daystore/pkg/store"
	"github.com/halcyon-apps/daystore/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = func() string {
	names := make([]string, 0, len(types.Tables))
	for _, s := range types.Tables {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}()

// openStore resolves directories and flags and opens the store. The caller
// must defer st.Close().
func openStore() (*store.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backendName := flagBackend
	if backendName == "" {
		backendName = configBackend
	}
	userID := flagUser
	if userID == "" {
		userID = configUser
	}

	st, err := store.Open(types.Config{
		Backend: backendName,
		DataDir: dataDir,
		UserID:  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// parseFieldArgs converts key=value arguments into a record, parsing each
// value according to the field's declared kind.
func parseFieldArgs(spec types.TableSpec, args []string) (types.Record, error) {
	rec := make(types.Record, len(args))
	for _, arg := range args {
		key, raw, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("invalid field %q (expected key=value)", arg)
		}
		val, err := parseFieldValue(spec, key, raw)
		if err != nil {
			return nil, err
		}
		rec[key] = val
	}
	return rec, nil
}

// parseFieldValue parses one raw string by the declared field kind.
func parseFieldValue(spec types.TableSpec, key, raw string) (any, error) {
	field, ok := spec.Field(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrInvalidField, spec.Name, key)
	}
	switch field.Kind {
	case types.KindText:
		return raw, nil
	case types.KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %s expects an integer: %w", key, err)
		}
		return n, nil
	case types.KindReal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("field %s expects a number: %w", key, err)
		}
		return f, nil
	case types.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s expects true or false: %w", key, err)
		}
		return b, nil
	case types.KindTime:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s expects an RFC3339 instant: %w", key, err)
		}
		return t, nil
	case types.KindJSON:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("field %s expects JSON: %w", key, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("field %s has unknown kind %q", key, field.Kind)
}

// printRecord writes one record as indented JSON.
func printRecord(rec types.Record) error {
	return printJSON(recordForOutput(rec))
}

// printRecords writes a record list as indented JSON.
func printRecords(recs []types.Record) error {
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordForOutput(r))
	}
	return printJSON(out)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// recordForOutput renders instants as RFC3339 for stable CLI output.
func recordForOutput(rec types.Record) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if t, ok := v.(time.Time); ok {
			if t.IsZero() {
				out[k] = nil
			} else {
				out[k] = t.UTC().Format(time.RFC3339)
			}
			continue
		}
		out[k] = v
	}
	return out
}
