package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
)

// formatter mirrors output.go's OutputFormatter: text or JSON, with a
// dryrun prefix, but colorizes success/failure text using fatih/color
// in place of the teacher's hand-rolled ANSI sequences.
type formatter struct {
	JSON   bool
	Dryrun bool
}

func newFormatter() *formatter {
	return &formatter{JSON: isJSONOutput(), Dryrun: isDryrun()}
}

func (f *formatter) PrintJSON(data any) error {
	out := map[string]any{"data": data, "dryrun": f.Dryrun}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func (f *formatter) PrintSuccess(text string) error {
	if f.JSON {
		return f.PrintJSON(map[string]any{"success": true, "message": text})
	}
	if f.Dryrun {
		color.New(color.FgYellow).Printf("[DRYRUN] %s\n", text)
		return nil
	}
	color.New(color.FgGreen).Println(text)
	return nil
}

func (f *formatter) PrintError(err error) error {
	if f.JSON {
		return f.PrintJSON(map[string]any{"success": false, "error": err.Error()})
	}
	color.New(color.FgRed).Fprintln(color.Error, err.Error())
	return nil
}
