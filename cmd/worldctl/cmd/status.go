package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current game's status",
	RunE:  runStatus,
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List units visible to the current player",
	RunE:  runUnits,
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List cities visible to the current player",
	RunE:  runCities,
}

func init() {
	rootCmd.AddCommand(statusCmd, unitsCmd, citiesCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := getGameID()
	if err != nil {
		return err
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	resp, err := c.do(http.MethodGet, "/api/games/"+id, nil)
	if err != nil {
		return f.PrintError(err)
	}
	var out map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	if f.JSON {
		return f.PrintJSON(out)
	}
	fmt.Printf("Game: %v (%v)\n", out["name"], out["status"])
	fmt.Printf("Turn: %v  Year: %v\n", out["currentTurn"], out["year"])
	fmt.Printf("My turn: %v\n", out["isMyTurn"])
	return nil
}

func runUnits(cmd *cobra.Command, args []string) error {
	id, err := getGameID()
	if err != nil {
		return err
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	resp, err := c.do(http.MethodGet, "/api/games/"+id+"/units", nil)
	if err != nil {
		return f.PrintError(err)
	}
	var out []map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	if f.JSON {
		return f.PrintJSON(out)
	}
	for _, u := range out {
		fmt.Printf("%-8v %-10v (%v,%v) hp=%v moves=%v/%v\n",
			u["id"], u["type"], u["x"], u["y"], u["health"], u["movementLeft"], u["maxMovement"])
	}
	return nil
}

func runCities(cmd *cobra.Command, args []string) error {
	id, err := getGameID()
	if err != nil {
		return err
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	resp, err := c.do(http.MethodGet, "/api/games/"+id+"/cities", nil)
	if err != nil {
		return f.PrintError(err)
	}
	var out []map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	if f.JSON {
		return f.PrintJSON(out)
	}
	for _, c := range out {
		fmt.Printf("%-8v %-14v (%v,%v) pop=%v food=%v prod=%v\n",
			c["id"], c["name"], c["x"], c["y"], c["population"], c["food"], c["production"])
	}
	return nil
}
