package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dutymgr/dutymgr/config"
	"github.com/dutymgr/dutymgr/core/roster"
	"github.com/dutymgr/dutymgr/infra/logger"
)

var (
	generateInput  string
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a schedule from a request file",
	RunE:  generate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "data", "d", "request.json", "generation request file")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the schedule to this file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(generateInput)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req roster.GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	mgr, err := roster.NewScheduleManager(cfg.Roster, logger.New("generate-command"), nil, nil, nil)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	sched, err := mgr.Generate(req)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(req.People))
	for _, p := range req.People {
		names[p.ID] = p.Name
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Date", "Day", "Role", "Person", "Manual"})
	for _, occ := range sched.Meetings {
		roleIDs := make([]string, 0, len(occ.Duties))
		for id := range occ.Duties {
			roleIDs = append(roleIDs, id)
		}
		sort.Strings(roleIDs)
		for _, roleID := range roleIDs {
			duty := occ.Duties[roleID]
			person := "-"
			if duty.PersonID != nil {
				person = names[*duty.PersonID]
				if person == "" {
					person = *duty.PersonID
				}
			}
			manual := ""
			if duty.ManuallyAssigned {
				manual = "yes"
			}
			t.AppendRow(table.Row{occ.Date, occ.Weekday, roleID, person, manual})
		}
	}
	t.Render()

	if len(sched.Conflicts) > 0 {
		ct := table.NewWriter()
		ct.SetOutputMirror(os.Stdout)
		ct.AppendHeader(table.Row{"Date", "Role", "Message"})
		for _, c := range sched.Conflicts {
			ct.AppendRow(table.Row{c.Date, c.RoleID, c.Message})
		}
		ct.Render()
	}

	if generateOutput != "" {
		out, err := json.MarshalIndent(sched, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(generateOutput, out, 0o644); err != nil {
			return fmt.Errorf("write schedule: %w", err)
		}
	}
	return nil
}
