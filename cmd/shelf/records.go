package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
	"github.com/aretw0/shelf/pkg/core"
)

// summaryFields are tried in order to give each record a one-line label.
var summaryFields = []string{"name", "title", "nickname", "strMeal", "label"}

// readRecord parses a JSON object from the argument, a file, or stdin when arg is "-".
func readRecord(cmd *cobra.Command, arg, file string) (core.Record, error) {
	var data []byte
	var err error
	switch {
	case file != "":
		data, err = os.ReadFile(file)
	case arg == "-" || arg == "":
		data, err = io.ReadAll(stdin(cmd))
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var rec core.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("record must be a JSON object: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("record must be a JSON object")
	}
	return rec, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func summary(rec core.Record) string {
	for _, f := range summaryFields {
		if s, ok := rec[f].(string); ok && s != "" {
			return s
		}
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, ", ") + "}"
}

var (
	reasonMsg   string
	reasonType  string
	reasonScope string
)

func addReasonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&reasonMsg, "message", "m", "", "Change reason recorded by versioned shelves")
	cmd.Flags().StringVarP(&reasonType, "type", "t", "", "Change type (feat, fix, docs, refactor, chore)")
	cmd.Flags().StringVarP(&reasonScope, "scope", "s", "", "Change scope (defaults to the namespace)")
}

// reasonContext attaches the change reason from the flags to ctx.
func reasonContext(ctx context.Context, scope, fallback string) context.Context {
	if reasonScope != "" {
		scope = reasonScope
	}
	return shelf.WithReason(ctx, changeReason(reasonType, scope, reasonMsg, fallback))
}

// changeReason builds the message recorded by versioned media.
func changeReason(ctype, scope, msg, fallback string) string {
	if ctype != "" {
		if msg == "" {
			msg = fallback
		}
		return shelf.FormatChangeReason(ctype, scope, msg)
	}
	if msg != "" {
		return shelf.AppendFooter(msg)
	}
	return shelf.FormatChangeReason("", scope, fallback)
}
