package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matchday/courtside/internal/activity"
	"github.com/matchday/courtside/internal/practice"
	"github.com/matchday/courtside/internal/session"
)

var (
	startActivity string
	startMatch    string
	startPlayers  []string
	startDrills   []string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start tracking a live session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		defer ctrl.Close()
		ctx := cmd.Context()

		// A session started earlier (possibly on another device) blocks a
		// new one: at most one active session per user.
		ctrl.FetchActive(ctx)
		if snap := ctrl.Snapshot(); snap.Phase == session.PhaseActive {
			return fmt.Errorf("session already in progress (started at %s, %s %s)",
				snap.Session.StartedAt.Format("15:04:05"),
				snap.Session.ActivityType, snap.Session.MatchType)
		}

		req, err := buildStartRequest()
		if err != nil {
			return err
		}

		if err := ctrl.Start(ctx, req); err != nil {
			if errors.Is(err, session.ErrStartPending) || errors.Is(err, session.ErrSessionActive) {
				return err
			}
			return fmt.Errorf("starting session: %w", err)
		}

		snap := ctrl.Snapshot()
		cmd.Printf("Session started: %s %s (%s)\n", req.ActivityType.Icon(), req.ActivityType, req.MatchType)
		cmd.Printf("Score: %s\n", snap.Session.Score.Summary())
		if len(snap.Session.Drills) > 0 {
			cmd.Printf("Drills: %d queued\n", len(snap.Session.Drills))
		}
		cmd.Println("Run 'courtside watch' for the live view or 'courtside panel' for the floating panel.")
		return nil
	},
}

// buildStartRequest assembles the create request from flags, falling back to
// an interactive picker on a terminal when no activity was given.
func buildStartRequest() (session.StartRequest, error) {
	var req session.StartRequest

	if startActivity == "" {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return req, fmt.Errorf("--activity is required when not running interactively")
		}
		return pickStartRequest()
	}

	at, err := activity.ParseType(startActivity)
	if err != nil {
		return req, err
	}
	mt := activity.MatchCasual
	if startMatch != "" {
		if mt, err = activity.ParseMatchType(startMatch); err != nil {
			return req, err
		}
	}

	req = session.StartRequest{
		ActivityType: at,
		MatchType:    mt,
		Players:      resolvePlayers(startPlayers),
	}
	if mt == activity.MatchPractice {
		req.Drills = parseDrillSpecs(startDrills)
		if len(req.Drills) == 0 {
			return req, fmt.Errorf("practice sessions need at least one --drill")
		}
	} else if len(startDrills) > 0 {
		return req, fmt.Errorf("--drill only applies to practice sessions")
	}
	return req, nil
}

// pickStartRequest runs the interactive session picker.
func pickStartRequest() (session.StartRequest, error) {
	var req session.StartRequest

	defaultActivity := string(activity.TypePadel)
	if p := GetProfile(); p != nil && p.FavoriteActivity != "" {
		defaultActivity = p.FavoriteActivity
	}
	pickedActivity := defaultActivity
	pickedMatch := string(activity.MatchCasual)
	players := strings.Join(resolvePlayers(nil), ", ")
	drills := ""

	var activityOptions []huh.Option[string]
	for _, t := range activity.Types() {
		activityOptions = append(activityOptions, huh.NewOption(t.Icon()+" "+string(t), string(t)))
	}
	var matchOptions []huh.Option[string]
	for _, m := range activity.MatchTypes() {
		matchOptions = append(matchOptions, huh.NewOption(string(m), string(m)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Activity").
				Options(activityOptions...).
				Value(&pickedActivity),
			huh.NewSelect[string]().
				Title("Match type").
				Options(matchOptions...).
				Value(&pickedMatch),
			huh.NewInput().
				Title("Players").
				Description("Comma-separated; leave empty for a solo session").
				Value(&players),
			huh.NewInput().
				Title("Drills").
				Description("Practice only. Semicolon-separated, e.g. serves,target=20; volleys").
				Value(&drills),
		),
	)
	if err := form.Run(); err != nil {
		return req, fmt.Errorf("start cancelled: %w", err)
	}

	at, err := activity.ParseType(pickedActivity)
	if err != nil {
		return req, err
	}
	mt, err := activity.ParseMatchType(pickedMatch)
	if err != nil {
		return req, err
	}

	req = session.StartRequest{
		ActivityType: at,
		MatchType:    mt,
		Players:      splitList(players, ","),
	}
	if mt == activity.MatchPractice {
		req.Drills = parseDrillSpecs(splitList(drills, ";"))
		if len(req.Drills) == 0 {
			return req, fmt.Errorf("practice sessions need at least one drill")
		}
	}
	return req, nil
}

// resolvePlayers applies profile and config defaults when no players were
// given explicitly. An empty result is a valid solo session.
func resolvePlayers(flag []string) []string {
	if len(flag) > 0 {
		return flag
	}
	if len(GetConfig().DefaultPlayers) > 0 {
		return GetConfig().DefaultPlayers
	}
	if p := GetProfile(); p != nil && p.Name != "" {
		return []string{p.Name}
	}
	return nil
}

// parseDrillSpecs builds drill entities from "name" or "name,key=value,…"
// specs, each with a client-generated id.
func parseDrillSpecs(specs []string) []practice.Drill {
	var out []practice.Drill
	for _, spec := range specs {
		parts := strings.Split(spec, ",")
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		var cfg map[string]string
		for _, p := range parts[1:] {
			k, v, ok := strings.Cut(p, "=")
			if !ok {
				continue
			}
			if cfg == nil {
				cfg = make(map[string]string)
			}
			cfg[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		out = append(out, practice.New(name, cfg))
	}
	return out
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	startCmd.Flags().StringVarP(&startActivity, "activity", "a", "", "Activity type: racing, golf, padel, tennis, esports, darts, pool")
	startCmd.Flags().StringVarP(&startMatch, "match", "m", "", "Match type: casual, practice, competitive (default casual)")
	startCmd.Flags().StringSliceVarP(&startPlayers, "player", "p", nil, "Player name (repeatable)")
	startCmd.Flags().StringSliceVarP(&startDrills, "drill", "d", nil, "Practice drill spec: name[,key=value…] (repeatable)")
	rootCmd.AddCommand(startCmd)
}
