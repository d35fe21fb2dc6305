package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// PrintJSON prints v as indented JSON to stdout.
func PrintJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// DocumentTable prints documents as a human-readable table.
func DocumentTable(docs []Document) {
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tSIZE\tSHARED\tUPLOADED")
	for _, d := range docs {
		shared := "-"
		if d.SharedWith != "" {
			shared = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.DocumentID, d.FileName, d.Kind, FormatSize(d.SizeBytes), shared, RelativeTime(d.UploadedAt))
	}
	w.Flush()
}

// SharedTable prints documents shared with the current user.
func SharedTable(docs []Document) {
	if len(docs) == 0 {
		fmt.Println("No documents have been shared with you.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOWNER\tKIND\tSIZE\tUPLOADED")
	for _, d := range docs {
		owner := d.OwnerName
		if owner == "" {
			owner = d.OwnerID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.DocumentID, d.FileName, owner, d.Kind, FormatSize(d.SizeBytes), RelativeTime(d.UploadedAt))
	}
	w.Flush()
}

// DocumentDetail prints a single document with its summary.
func DocumentDetail(d Document) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", d.DocumentID)
	fmt.Fprintf(w, "Name:\t%s\n", d.FileName)
	fmt.Fprintf(w, "Kind:\t%s\n", d.Kind)
	fmt.Fprintf(w, "Size:\t%s\n", FormatSize(d.SizeBytes))
	if d.SharedWith != "" {
		fmt.Fprintf(w, "Shared with:\t%s\n", d.SharedWith)
	}
	fmt.Fprintf(w, "Uploaded:\t%s\n", d.UploadedAt)
	w.Flush()
	if d.Summary != "" {
		fmt.Printf("\nSummary:\n%s\n", d.Summary)
	}
}

// UserInfo prints user details.
func UserInfo(u User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Username:\t%s\n", u.Username)
	fmt.Fprintf(w, "Role:\t%s\n", u.Role)
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	w.Flush()
}

// FormatSize converts bytes to a human-readable string.
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// RelativeTime renders an RFC3339 timestamp as a rough age. Unparseable
// input is returned unchanged.
func RelativeTime(raw string) string {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	d := time.Since(ts)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return ts.Format("2006-01-02")
	}
}
