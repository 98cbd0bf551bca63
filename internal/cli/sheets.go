package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetshot/pkg/sheet"
	"github.com/matzehuels/sheetshot/pkg/xlsx"
)

// sheetsCommand creates the sheets command for listing a workbook's
// worksheets.
func (c *CLI) sheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [file.xlsx]",
		Short: "List the worksheets in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheets(args[0])
		},
	}
}

func runSheets(input string) error {
	wb, err := xlsx.Open(input)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets := wb.Worksheets()
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s — %d worksheet(s)", input, len(sheets))))
	for i, ws := range sheets {
		printKeyValue(fmt.Sprintf("%d", i+1), ws.Name())
		printSheetDetail(ws)
	}
	return nil
}

func printSheetDetail(ws sheet.Worksheet) {
	detail := fmt.Sprintf("%d column(s) × %d row(s)", ws.ColumnCount(), ws.RowCount())
	if n := len(ws.Merges()); n > 0 {
		detail += fmt.Sprintf(", %d merged range(s)", n)
	}
	if n := len(ws.Pictures()); n > 0 {
		detail += fmt.Sprintf(", %d picture(s)", n)
	}
	fmt.Println("  " + StyleDim.Render(detail))
}
