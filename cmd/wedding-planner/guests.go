package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wedding-planner/internal/guestlist"
	"wedding-planner/internal/models"
	"wedding-planner/internal/storage"
)

var (
	importDryRun bool

	listFields []string
	listStatus string
	listOutput string
	printTitle string
	printPDF   bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import guests from a CSV file",
	Long: `Import guests from a CSV file whose first line names the columns:

  ` + strings.Join(guestlist.ImportHeader, ",") + `

Rows with errors are skipped and reported; warnings are reported but the
guest is imported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the guest list as CSV with German column names",
	RunE:  runExport,
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Write a printable guest list (HTML or PDF)",
	RunE:  runPrint,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate only, do not store guests")

	for _, c := range []*cobra.Command{exportCmd, printCmd} {
		c.Flags().StringSliceVarP(&listFields, "fields", "f", nil, "Columns to include (default: "+strings.Join(guestlist.DefaultExportFields, ",")+")")
		c.Flags().StringVarP(&listStatus, "status", "s", "", "Only guests with this RSVP status")
		c.Flags().StringVarP(&listOutput, "output", "o", "", "Output file")
	}
	printCmd.Flags().StringVarP(&printTitle, "title", "t", "", "Title of the list")
	printCmd.Flags().BoolVar(&printPDF, "pdf", false, "Write a PDF instead of HTML")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	res, err := guestlist.ImportCSV(f)
	if err != nil {
		return err
	}

	for _, issue := range res.Issues {
		for _, e := range issue.Errors {
			fmt.Printf("❌ Line %d: %s\n", issue.Line, e)
		}
		for _, w := range issue.Warnings {
			fmt.Printf("⚠️  Line %d: %s\n", issue.Line, w)
		}
	}

	if !importDryRun {
		if err := a.guests.AddGuests(cmd.Context(), res.Guests); err != nil {
			return fmt.Errorf("failed to add guests: %w", err)
		}
	}

	fmt.Printf("\n✅ %d of %d guests imported, %d rejected\n", len(res.Guests), res.Total, res.Rejected())
	if importDryRun {
		fmt.Println("(dry run, nothing was stored)")
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	guests, err := loadGuests(cmd.Context(), a.guests, listStatus)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := guestlist.ExportGuestsToCSV(&buf, guests, listFields); err != nil {
		return err
	}
	return writeOutput(outputPath(".csv"), buf.Bytes(), len(guests))
}

func runPrint(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	guests, err := loadGuests(cmd.Context(), a.guests, listStatus)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	ext := ".html"
	if printPDF {
		ext = ".pdf"
		err = guestlist.GeneratePrintablePDF(&buf, guests, listFields, printTitle)
	} else {
		err = guestlist.GeneratePrintableList(&buf, guests, listFields, printTitle)
	}
	if err != nil {
		return err
	}
	return writeOutput(outputPath(ext), buf.Bytes(), len(guests))
}

func loadGuests(ctx context.Context, repo storage.GuestRepository, status string) ([]models.Guest, error) {
	if status == "" {
		return repo.GetAllGuests(ctx)
	}
	s := models.RSVPStatus(strings.ToLower(status))
	if !s.Valid() {
		return nil, fmt.Errorf("unknown rsvp status %q", status)
	}
	return repo.GetGuestsByStatus(ctx, s)
}

func outputPath(ext string) string {
	if listOutput != "" {
		return listOutput
	}
	return guestlist.ExportFilename("", ext)
}

func writeOutput(path string, data []byte, count int) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("✅ Wrote %d guests to %s\n", count, path)
	return nil
}
