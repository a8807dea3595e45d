package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// resolveAction submits one playerActions[] entry to
// /turns/resolve, stamped with the game's currentTurn as turnVersion,
// and streams the resulting progress frames to stdout,
// the CLI-side counterpart of httpapi.handleResolveTurn's SSE stream.
func resolveAction(action map[string]any) error {
	id, err := getGameID()
	if err != nil {
		return err
	}
	f := newFormatter()
	if isDryrun() {
		b, _ := json.MarshalIndent(action, "", "  ")
		return f.PrintSuccess(fmt.Sprintf("would submit action to game %s:\n%s", id, b))
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	stateResp, err := c.do(http.MethodGet, "/api/games/"+id, nil)
	if err != nil {
		return f.PrintError(err)
	}
	var state struct {
		CurrentTurn int `json:"currentTurn"`
	}
	if err := decode(stateResp, &state); err != nil {
		return f.PrintError(err)
	}
	body := map[string]any{"turnVersion": state.CurrentTurn, "playerActions": []map[string]any{action}}
	resp, err := c.do(http.MethodPost, "/api/games/"+id+"/turns/resolve", body)
	if err != nil {
		return f.PrintError(err)
	}
	var lastErr error
	err = streamSSE(resp, func(data []byte) {
		var frame map[string]any
		if json.Unmarshal(data, &frame) != nil {
			return
		}
		if f.JSON {
			f.PrintJSON(frame)
			return
		}
		fmt.Printf("[%v] %v\n", frame["stage"], frame["message"])
		if errKind, ok := frame["error"].(string); ok && errKind != "" {
			lastErr = fmt.Errorf("%s: %v", errKind, frame["message"])
		}
	})
	if err != nil {
		return f.PrintError(err)
	}
	return lastErr
}

var moveCmd = &cobra.Command{
	Use:   "move <unitId> <x> <y>",
	Short: "Move a unit to a tile",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseXY(args[1], args[2])
		if err != nil {
			return err
		}
		return resolveAction(map[string]any{"type": "unit_move", "unitId": args[0], "toX": x, "toY": y})
	},
}

var attackCmd = &cobra.Command{
	Use:   "attack <attackerUnitId> <defenderUnitId>",
	Short: "Attack an enemy unit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveAction(map[string]any{"type": "unit_attack", "attackerUnitId": args[0], "defenderUnitId": args[1]})
	},
}

var foundCityCmd = &cobra.Command{
	Use:   "found-city <name> <x> <y>",
	Short: "Found a city with the settler on tile (x,y)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseXY(args[1], args[2])
		if err != nil {
			return err
		}
		return resolveAction(map[string]any{"type": "found_city", "name": args[0], "x": x, "y": y})
	},
}

var fortifyCmd = &cobra.Command{
	Use:   "fortify <unitId>",
	Short: "Fortify a unit in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveAction(map[string]any{"type": "fortify", "unitId": args[0]})
	},
}

var researchCmd = &cobra.Command{
	Use:   "research <techId>",
	Short: "Select the next tech to research",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveAction(map[string]any{"type": "research_selection", "techId": args[0]})
	},
}

var (
	productionKind string
)

var productionCmd = &cobra.Command{
	Use:   "production <cityId> <id>",
	Short: "Set a city's production order (unit or building id)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveAction(map[string]any{
			"type": "set_production", "cityId": args[0], "id": args[1], "productionKind": productionKind,
		})
	},
}

var endturnCmd = &cobra.Command{
	Use:   "endturn",
	Short: "Submit an end-turn action",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveAction(map[string]any{"type": "end_turn"})
	},
}

func init() {
	productionCmd.Flags().StringVar(&productionKind, "kind", "unit", "production kind: unit or building")
	rootCmd.AddCommand(moveCmd, attackCmd, foundCityCmd, fortifyCmd, researchCmd, productionCmd, endturnCmd)
}

func parseXY(xs, ys string) (int, int, error) {
	var x, y int
	if _, err := fmt.Sscanf(xs, "%d", &x); err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	if _, err := fmt.Sscanf(ys, "%d", &y); err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return x, y, nil
}
