package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return goerr.New("invalid output format",
			goerr.V("output", format),
			goerr.V("valid_formats", []string{outputText, outputJSON, outputYAML}),
		)
	}
}

// printResponse writes an upload response. JSON output is the API body as received.
func printResponse(w io.Writer, format string, resp *imgbb.Response, rcpt *receipt.Receipt) error {
	switch format {
	case outputJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Raw, "", "  "); err != nil {
			return goerr.Wrap(err, "failed to format response JSON")
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err

	case outputYAML:
		var v any
		if err := json.Unmarshal(resp.Raw, &v); err != nil {
			return goerr.Wrap(err, "failed to decode response JSON")
		}
		return writeYAML(w, v)
	}

	d := resp.Data
	fmt.Fprintln(w, "✅ Upload successful!")
	fmt.Fprintf(w, "📷 Image ID: %s\n", d.ID)
	fmt.Fprintf(w, "📐 Size: %sx%s\n", d.Width, d.Height)
	if size, err := d.Size.Float64(); err == nil {
		fmt.Fprintf(w, "💾 File size: %.2f KB\n", size/1024)
	}
	fmt.Fprintln(w, "\n🔗 URLs:")
	fmt.Fprintf(w, "   Viewer:  %s\n", d.URLViewer)
	fmt.Fprintf(w, "   Direct:  %s\n", d.URL)
	fmt.Fprintf(w, "   Display: %s\n", d.DisplayURL)
	fmt.Fprintf(w, "\n🗑️  Delete URL: %s\n", d.DeleteURL)

	if exp, err := d.Expiration.Int64(); err == nil && exp > 0 {
		fmt.Fprintf(w, "⏰ Will expire in: %.1f hours\n", float64(exp)/3600)
	} else {
		fmt.Fprintln(w, "♾️  Permanent storage")
	}

	if rcpt != nil {
		fmt.Fprintf(w, "🧾 Receipt: %s\n", rcpt.ID)
	}

	return nil
}

func printReceipt(w io.Writer, format string, r *receipt.Receipt) error {
	switch format {
	case outputJSON:
		return writeJSON(w, r)
	case outputYAML:
		return writeYAML(w, r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Created:\t%s\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Source:\t%s %s\n", r.SourceKind, r.Source)
	if r.Name != "" {
		fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	}
	fmt.Fprintf(tw, "Image ID:\t%s\n", r.ImageID)
	fmt.Fprintf(tw, "Size:\t%sx%s (%s bytes)\n", r.Width, r.Height, r.Size)
	fmt.Fprintf(tw, "URL:\t%s\n", r.URL)
	fmt.Fprintf(tw, "Viewer:\t%s\n", r.ViewerURL)
	fmt.Fprintf(tw, "Delete URL:\t%s\n", r.DeleteURL)
	if exp := r.ExpiresAt(); !exp.IsZero() {
		fmt.Fprintf(tw, "Expires:\t%s\n", exp.Format(time.RFC3339))
	} else {
		fmt.Fprintf(tw, "Expires:\tnever\n")
	}
	return tw.Flush()
}

func printReceipts(w io.Writer, format string, receipts []*receipt.Receipt) error {
	switch format {
	case outputJSON:
		return writeJSON(w, receipts)
	case outputYAML:
		return writeYAML(w, receipts)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tNAME\tURL\tDELETE URL")
	for _, r := range receipts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Name, r.URL, r.DeleteURL)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode JSON")
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode YAML")
	}
	return enc.Close()
}
