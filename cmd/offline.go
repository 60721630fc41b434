package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/mongoarchitect-backend/internal/app"
	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/jsonx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

var schemaFile string

var generateCmd = &cobra.Command{
	Use:   "generate [requirements]",
	Short: "Generate a schema and print it as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := offlineEngine()
		if err != nil {
			return err
		}
		res := engine.GenerateSchema(cmd.Context(), strings.Join(args, " "), workload)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), jsonx.Pretty(res))
		return err
	},
}

var refineCmd = &cobra.Command{
	Use:   "refine --schema file.json [change request]",
	Short: "Refine a schema read from a JSON file and print the new version",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prev, err := readResult(schemaFile)
		if err != nil {
			return err
		}
		engine, err := offlineEngine()
		if err != nil {
			return err
		}
		res := engine.ApplyRefinement(cmd.Context(), prev, strings.Join(args, " "), workload)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), jsonx.Pretty(res))
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, refineCmd} {
		c.Flags().StringVarP(&workload, "workload", "w", "balanced", "workload hint (read-heavy, write-heavy, balanced, analytical)")
	}
	refineCmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "path to a previous result as JSON")
	_ = refineCmd.MarkFlagRequired("schema")
}

// offlineEngine logs to stderr only in debug mode so stdout stays pure JSON.
func offlineEngine() (*schemaengine.Engine, error) {
	cfg := app.LoadConfig()
	mode := "test"
	if cfg.LogMode == "debug" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	engine, _, err := app.NewEngine(cfg, log, nil)
	return engine, err
}

func readResult(path string) (*schema.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	var res schema.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode schema file: %w", err)
	}
	if len(res.Schema) == 0 {
		return nil, fmt.Errorf("schema file %s has no collections", path)
	}
	return &res, nil
}
