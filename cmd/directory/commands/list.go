package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"company-directory/internal/core"
	"company-directory/internal/directory"
	"company-directory/internal/loader"
)

type listOptions struct {
	url      string
	query    string
	location string
	industry string
	sortKey  string
	sortDir  string
	page     int
	size     int
	output   string
}

func listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the dataset once and print one page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.url == "" {
				opts.url = cfg.Client.URL
			}
			if !cmd.Flags().Changed("size") {
				opts.size = cfg.Client.PageSize
			}
			fetcher := loader.NewHTTPFetcher(opts.url, nil, cfg.Client.Timeout, logger)
			return runList(cmd.Context(), fetcher, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "dataset URL (overrides client.url)")
	f.StringVarP(&opts.query, "query", "q", "", "match name, location or industry")
	f.StringVar(&opts.location, "location", "", "exact location")
	f.StringVar(&opts.industry, "industry", "", "exact industry")
	f.StringVar(&opts.sortKey, "sort", string(core.SortByName), "sort by name, location or industry")
	f.StringVar(&opts.sortDir, "dir", string(core.Ascending), "asc or desc")
	f.IntVar(&opts.page, "page", 1, "page number, starting at 1")
	f.IntVar(&opts.size, "size", core.DefaultPageSize, "rows per page (5, 10 or 25)")
	f.StringVarP(&opts.output, "output", "o", "table", "table or json")
	return cmd
}

func runList(ctx context.Context, fetcher core.Fetcher, out, errOut io.Writer, opts listOptions, logger *zap.Logger) error {
	query, err := opts.toQuery()
	if err != nil {
		return err
	}
	if opts.output != "table" && opts.output != "json" {
		return fmt.Errorf("invalid output format: %s", opts.output)
	}

	seq := loader.NewSequencer(fetcher, logger)
	defer seq.Close()

	state := seq.Load(ctx)
	switch state.Phase {
	case core.PhaseError:
		fmt.Fprintln(errOut, state.Message)
		return silentError{err: state.Err}
	case core.PhaseLoading:
		return ctx.Err()
	}

	view := directory.Compute(state.Records, query)
	if opts.output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return renderTable(out, view)
}

func (o listOptions) toQuery() (directory.Query, error) {
	key, err := core.ParseSortKey(o.sortKey)
	if err != nil {
		return directory.Query{}, err
	}
	dir, err := core.ParseSortDirection(o.sortDir)
	if err != nil {
		return directory.Query{}, err
	}
	if o.page < 1 {
		return directory.Query{}, errors.New("page must be at least 1")
	}
	return directory.Query{
		Filter: core.FilterState{Query: o.query, Location: o.location, Industry: o.industry},
		Sort:   core.SortState{Key: key, Direction: dir},
		Page:   core.PageState{Index: o.page - 1, Size: core.NormalizePageSize(o.size)},
	}, nil
}

func renderTable(w io.Writer, view directory.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLOCATION\tINDUSTRY")
	for _, c := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.LocationValue(), c.IndustryValue())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.Empty() {
		fmt.Fprintln(w, "No companies match your filters.")
	}
	p := view.Page
	from, to := 0, 0
	if p.Start < p.End {
		from, to = p.Start+1, p.End
	}
	_, err := fmt.Fprintf(w, "%d–%d of %d  (page %d of %d, %d per page)\n",
		from, to, view.Total, p.Index+1, max(p.PageCount, 1), p.Size)
	return err
}
