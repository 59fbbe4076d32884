package cmd

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
	"github.com/tweetkit/tw/internal/outfmt"
)

var rawMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

func newAPICmd() *cobra.Command {
	var (
		method         string
		fields         []string
		fieldsFile     string
		silent         bool
		includeHeaders bool
	)

	cmd := &cobra.Command{
		Use:   "api <path>",
		Short: "Make a raw request to any API path",
		Long: strings.TrimSpace(`
Make a raw request to any API path, for endpoints without a dedicated
command. The path is relative to the base URL and should carry the format
suffix, e.g. /1/statuses/show/123.json.

Fields are sent in the query string for GET and DELETE, and form-encoded
in the body for POST and PUT.
`),
		Example: strings.TrimSpace(`
  # GET request (default)
  tw api /1/statuses/show/123.json

  # POST with fields
  tw api /1/statuses/update.json -X POST -f status="hello world"

  # Fields from a KEY=value file
  tw api /1/account/update_profile.json -X POST --fields-file profile.env

  # Filter the response with jq
  tw api /1/users/show.json -f screen_name=jack --output json --jq '.followers_count'
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(strings.TrimSpace(method))
			if !lo.Contains(rawMethods, method) {
				return api.NewValidationError("method", method, rawMethods)
			}

			params, err := buildRawParams(fields, fieldsFile)
			if err != nil {
				return err
			}
			path := "/" + strings.TrimLeft(strings.TrimSpace(args[0]), "/")

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			req := s.Requester()
			ctx := cmd.Context()
			var resp *api.Response
			switch method {
			case http.MethodGet:
				resp, err = req.Get(ctx, path, &api.RequestOptions{Query: params})
			case http.MethodPost:
				resp, err = req.Post(ctx, path, &api.RequestOptions{Body: params})
			case http.MethodPut:
				resp, err = req.Put(ctx, path, &api.RequestOptions{Body: params})
			case http.MethodDelete:
				resp, err = req.Delete(ctx, path, &api.RequestOptions{Query: params})
			}
			if err != nil {
				return err
			}
			if silent {
				return nil
			}
			return printResponse(cmd, resp, func(f *outfmt.Formatter, resp *api.Response) error {
				out := cmd.OutOrStdout()
				if includeHeaders {
					_, _ = fmt.Fprintf(out, "HTTP %d\n", resp.StatusCode)
					keys := make([]string, 0, len(resp.Header))
					for k := range resp.Header {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						for _, v := range resp.Header[k] {
							_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
						}
					}
					_, _ = fmt.Fprintln(out)
				}
				if len(resp.Body) == 0 {
					return nil
				}
				if doc := resp.Document(); doc.Value() != nil {
					return outfmt.WriteJSON(out, doc.Value(), false)
				}
				_, _ = fmt.Fprintln(out, string(resp.Body))
				return nil
			})
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method (GET, POST, PUT, DELETE)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Request field as key=value (repeatable)")
	cmd.Flags().StringVar(&fieldsFile, "fields-file", "", "Read fields from a KEY=value file")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include the status line and response headers in text output")
	flagAlias(cmd.Flags(), "include", "inc")
	flagAlias(cmd.Flags(), "fields-file", "input")

	return cmd
}

// buildRawParams merges the fields file (sorted by key) with -f fields,
// which are appended in the order given.
func buildRawParams(fields []string, fieldsFile string) (api.Params, error) {
	var params api.Params
	if fieldsFile != "" {
		values, err := godotenv.Read(config.ExpandPath(fieldsFile))
		if err != nil {
			return api.Params{}, fmt.Errorf("failed to read fields file: %w", err)
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			params.Set(k, values[k])
		}
	}
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return api.Params{}, fmt.Errorf("invalid field %q: expected key=value", field)
		}
		params.Set(key, value)
	}
	return params, nil
}
