package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mwantia/lensdb/cmd/lensdb/cli/catalog"
	"github.com/mwantia/lensdb/cmd/lensdb/cli/render"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/query"
	"github.com/spf13/cobra"
)

type response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   bool   `json:"error"`
}

type lensesData struct {
	Lenses  []lens.Record `json:"lenses"`
	Total   int           `json:"total"`
	Matched int           `json:"matched"`
	Queries []struct {
		Label string `json:"label"`
	} `json:"queries"`
	ShareURL string `json:"share_url"`
}

func NewLensesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lenses",
		Short: "Query a running agent",
		Long:  "Query the HTTP API of a running LensDB agent.",
	}

	cmd.PersistentFlags().String("addr", "http://localhost:8080", "agent base URL")
	cmd.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(newLensesListCommand())
	cmd.AddCommand(newLensesGetCommand())

	return cmd
}

func newLensesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [Name=value...]",
		Short: "List lenses matching the given predicates",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := catalog.BuildSet(query.Default(), args)
			if err != nil {
				return err
			}

			var data lensesData
			if err := get(cmd, "/api/v1/lenses?"+query.EncodeQuery(set), &data); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, q := range data.Queries {
				fmt.Fprintf(out, "- %s\n", q.Label)
			}

			table := render.NewTable("ID", "Maker", "Name", "Weight", "Price")
			for _, rec := range data.Lenses {
				table.AddRow(strconv.Itoa(rec.ID), rec.Maker, rec.Name,
					strconv.FormatFloat(rec.Weight, 'f', -1, 64)+"g",
					strconv.FormatFloat(rec.Price, 'f', -1, 64)+"円")
			}
			fmt.Fprint(out, table.String())
			fmt.Fprintf(out, "%d of %d lenses\n%s\n", data.Matched, data.Total, data.ShareURL)
			return nil
		},
	}

	return cmd
}

func newLensesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one lens as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("lens id must be an integer: %s", args[0])
			}

			var rec lens.Record
			if err := get(cmd, "/api/v1/lenses/"+url.PathEscape(args[0]), &rec); err != nil {
				return err
			}
			return render.JSON(cmd.OutOrStdout(), rec)
		},
	}
}

func get[T any](cmd *cobra.Command, path string, out *T) error {
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(addr, "/")+path, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope response[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("unexpected response (%s): %w", resp.Status, err)
	}
	if envelope.Error || resp.StatusCode >= 400 {
		return fmt.Errorf("agent returned %s: %s", resp.Status, envelope.Message)
	}

	*out = envelope.Data
	return nil
}
