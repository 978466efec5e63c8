package main

import (
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"remotekb/internal/config"
	"remotekb/internal/network"
	"remotekb/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "list recent sessions",
	Long:  `list the most recent host and client sessions recorded on this machine`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgMgr, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := storage.Open(cfgMgr.HistoryPath())
		if err != nil {
			return err
		}
		defer db.Close()

		sessions, err := db.RecentSessions(historyLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tROLE\tPEER\tTRANSPORT\tDURATION\tFRAMES\tBYTES\tOUTCOME")
		for _, s := range sessions {
			outcome := s.Outcome
			if s.ErrorMessage != "" {
				outcome += " (" + s.ErrorMessage + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				s.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Role, s.Peer, s.Transport,
				s.Duration().Round(time.Second), s.Frames, s.Bytes, outcome)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of sessions to show")
}

// recorder writes one history row when a session ends. A nil recorder
// (history disabled or unavailable) records nothing.
type recorder struct {
	db      *storage.DB
	session storage.Session
}

func startRecording(cfgMgr *config.Manager, role, peer string, transport network.Transport) *recorder {
	if !cfgMgr.Get().History.Enabled {
		return nil
	}
	db, err := storage.Open(cfgMgr.HistoryPath())
	if err != nil {
		log.Printf("History: Warning: %v", err)
		return nil
	}
	return &recorder{
		db: db,
		session: storage.Session{
			Role:      role,
			Peer:      peer,
			Transport: string(transport),
			StartedAt: time.Now(),
		},
	}
}

func (r *recorder) finish(frames, bytes int64, outcome string, err error) {
	if r == nil {
		return
	}
	defer r.db.Close()

	r.session.EndedAt = time.Now()
	r.session.Frames = frames
	r.session.Bytes = bytes
	r.session.Outcome = outcome
	if err != nil {
		r.session.ErrorMessage = err.Error()
	}
	if err := r.db.SaveSession(&r.session); err != nil {
		log.Printf("History: Warning: %v", err)
	}
}
