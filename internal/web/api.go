package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tidemark/internal/back"
	"tidemark/internal/util"

	"github.com/go-chi/chi"
	"gopkg.in/guregu/null.v4"
)

type ratedPlayerView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Games         int     `json:"games"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Mu            float64 `json:"mu"`
	Sigma         float64 `json:"sigma"`
	Ordinal       float64 `json:"ordinal"`
	DisplayRating int     `json:"displayRating"`
}

func (s *Server) getRatings(w http.ResponseWriter, r *http.Request) {
	rated, err := s.back.CurrentRatings()
	if err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
		return
	}

	ret := make([]ratedPlayerView, 0, len(rated))
	for _, p := range rated {
		ret = append(ret, ratedPlayerView{
			ID:            p.ID.String(),
			Name:          p.Name,
			Games:         p.Games,
			Wins:          p.Wins,
			Losses:        p.Losses,
			Mu:            p.Mu,
			Sigma:         p.Sigma,
			Ordinal:       p.Ordinal,
			DisplayRating: p.DisplayRating,
		})
	}

	s.response(w, http.StatusOK, ret)
}

type snapshotBeliefView struct {
	Mu            float64 `json:"mu"`
	Sigma         float64 `json:"sigma"`
	DisplayRating int     `json:"displayRating"`
}

type snapshotView struct {
	Index        int                           `json:"index"`
	MatchID      string                        `json:"matchId,omitempty"`
	PlayedAt     int64                         `json:"playedAt,omitempty"`
	Ratings      map[string]snapshotBeliefView `json:"ratings"`
	Participants []string                      `json:"participants"`
}

func (s *Server) getRatingHistory(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.back.HistoricalRatings()
	if err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
		return
	}

	ret := make([]snapshotView, 0, len(snapshots))
	for _, snapshot := range snapshots {
		view := snapshotView{
			Index:        snapshot.Index,
			Ratings:      make(map[string]snapshotBeliefView, len(snapshot.Beliefs)),
			Participants: make([]string, 0, len(snapshot.Participants)),
		}
		if !snapshot.MatchID.IsZero() {
			view.MatchID = snapshot.MatchID.String()
			view.PlayedAt = snapshot.PlayedAt.Time().Unix()
		}

		for id, belief := range snapshot.Beliefs {
			view.Ratings[id.String()] = snapshotBeliefView{
				Mu:            belief.Mu,
				Sigma:         belief.Sigma,
				DisplayRating: belief.DisplayRating(),
			}
		}
		for _, id := range snapshot.Participants {
			view.Participants = append(view.Participants, id.String())
		}

		ret = append(ret, view)
	}

	s.response(w, http.StatusOK, ret)
}

func (s *Server) getWinProbability(w http.ResponseWriter, r *http.Request) {
	blue, err := parseIDList(r.URL.Query().Get("blue"))
	if err != nil {
		s.error(w, r, util.ErrPublic("invalid blue roster"), http.StatusBadRequest)
		return
	}

	red, err := parseIDList(r.URL.Query().Get("red"))
	if err != nil {
		s.error(w, r, util.ErrPublic("invalid red roster"), http.StatusBadRequest)
		return
	}

	prob, err := s.back.WinProbability(blue, red)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	s.response(w, http.StatusOK, prob)
}

func (s *Server) getHeroStats(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	stats, err := s.back.HeroStats(intParam(r, "min", 2), from, to)
	if err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
		return
	}

	s.response(w, http.StatusOK, stats)
}

func (s *Server) getHeroWinRates(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	var heroes []string
	if raw := r.URL.Query().Get("heroes"); raw != "" {
		heroes = strings.Split(raw, ",")
	}

	series, err := s.back.HeroWinRateOverTime(heroes, intParam(r, "min", 5), from, to)
	if err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
		return
	}

	s.response(w, http.StatusOK, series)
}

func (s *Server) getRelationships(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	players, err := parseIDList(r.URL.Query().Get("players"))
	if err != nil {
		s.error(w, r, util.ErrPublic("invalid player list"), http.StatusBadRequest)
		return
	}

	relationships, err := s.back.PlayerRelationships(players, intParam(r, "min", 2), from, to)
	if err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
		return
	}

	s.response(w, http.StatusOK, relationships)
}

type submissionEntryRequest struct {
	PlayerName  string   `json:"playerName"`
	Side        int      `json:"side"`
	Hero        string   `json:"hero"`
	Kills       null.Int `json:"kills"`
	Deaths      null.Int `json:"deaths"`
	Assists     null.Int `json:"assists"`
	GoldEarned  null.Int `json:"goldEarned"`
	MinionKills null.Int `json:"minionKills"`
	Level       null.Int `json:"level"`
}

type matchSubmissionRequest struct {
	PlayedAt    time.Time                `json:"playedAt"`
	WinningSide int                      `json:"winningSide"`
	Length      int                      `json:"length"`
	DoubleLanes bool                     `json:"doubleLanes"`
	Entries     []submissionEntryRequest `json:"entries"`
}

func (s *Server) postMatch(w http.ResponseWriter, r *http.Request) {
	var req matchSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, util.ErrPublic("invalid JSON payload"), http.StatusBadRequest)
		return
	}

	sub := back.MatchSubmission{
		PlayedAt:    req.PlayedAt,
		WinningSide: back.Side(req.WinningSide),
		Length:      back.MatchLength(req.Length),
		DoubleLanes: req.DoubleLanes,
	}
	for _, e := range req.Entries {
		sub.Entries = append(sub.Entries, back.SubmissionEntry{
			PlayerName:  e.PlayerName,
			Side:        back.Side(e.Side),
			Hero:        e.Hero,
			Kills:       e.Kills,
			Deaths:      e.Deaths,
			Assists:     e.Assists,
			GoldEarned:  e.GoldEarned,
			MinionKills: e.MinionKills,
			Level:       e.Level,
		})
	}

	match, err := s.back.SubmitMatch(sub)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	s.response(w, http.StatusCreated, map[string]string{"id": match.ID.String()})
}

type participationEditRequest struct {
	PlayerID    string   `json:"playerId"`
	Side        int      `json:"side"`
	Hero        string   `json:"hero"`
	Kills       null.Int `json:"kills"`
	Deaths      null.Int `json:"deaths"`
	Assists     null.Int `json:"assists"`
	GoldEarned  null.Int `json:"goldEarned"`
	MinionKills null.Int `json:"minionKills"`
	Level       null.Int `json:"level"`
}

// matchEditRequest is the full desired state of the match, the controller
// itself figures out which fields actually changed.
type matchEditRequest struct {
	PlayedAt       time.Time                  `json:"playedAt"`
	WinningSide    int                        `json:"winningSide"`
	Length         int                        `json:"length"`
	DoubleLanes    bool                       `json:"doubleLanes"`
	Participations []participationEditRequest `json:"participations"`
}

func (s *Server) loadEditedDraft(r *http.Request) (*back.MatchDraft, error) {
	id, err := util.ParseUUIDAsBlob(chi.URLParam(r, "id"))
	if err != nil {
		return nil, util.ErrPublic("invalid match ID")
	}

	var req matchEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, util.ErrPublic("invalid JSON payload")
	}

	draft, err := s.back.LoadMatchDraft(id)
	if err != nil {
		return nil, err
	}

	draft.Match.PlayedAt = util.TimeAsTimestamp(req.PlayedAt)
	draft.Match.WinningSide = back.Side(req.WinningSide)
	draft.Match.Length = back.MatchLength(req.Length)
	draft.Match.DoubleLanes = req.DoubleLanes

	for _, edit := range req.Participations {
		playerID, err := util.ParseUUIDAsBlob(edit.PlayerID)
		if err != nil {
			return nil, util.ErrPublic("invalid player ID in roster")
		}

		part := draft.Participation(playerID)
		if part == nil {
			return nil, util.ErrPublic("cannot add a player to a recorded match, delete and resubmit it")
		}

		part.Side = back.Side(edit.Side)
		part.Hero = edit.Hero
		part.Kills = edit.Kills
		part.Deaths = edit.Deaths
		part.Assists = edit.Assists
		part.GoldEarned = edit.GoldEarned
		part.MinionKills = edit.MinionKills
		part.Level = edit.Level
	}

	return draft, nil
}

func (s *Server) postValidateMatch(w http.ResponseWriter, r *http.Request) {
	draft, err := s.loadEditedDraft(r)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	s.response(w, http.StatusOK, s.validationPayload(r, draft.Validate()))
}

func (s *Server) patchMatch(w http.ResponseWriter, r *http.Request) {
	draft, err := s.loadEditedDraft(r)
	if err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.back.CommitMatchDraft(draft); err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := util.ParseUUIDAsBlob(chi.URLParam(r, "id"))
	if err != nil {
		s.error(w, r, util.ErrPublic("invalid match ID"), http.StatusBadRequest)
		return
	}

	if err := s.back.DeleteMatch(id); err != nil {
		s.error(w, r, err, http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIDList(raw string) ([]util.UUIDAsBlob, error) {
	if raw == "" {
		return nil, nil
	}

	split := strings.Split(raw, ",")
	ret := make([]util.UUIDAsBlob, 0, len(split))
	for _, str := range split {
		id, err := util.ParseUUIDAsBlob(strings.TrimSpace(str))
		if err != nil {
			return nil, err
		}
		ret = append(ret, id)
	}

	return ret, nil
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func parseWindow(r *http.Request) (from, to *time.Time, _ error) {
	parse := func(name string) (*time.Time, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return nil, nil
		}

		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, util.ErrPublic("invalid date, expected YYYY-MM-DD")
		}

		return &t, nil
	}

	from, err := parse("from")
	if err != nil {
		return nil, nil, err
	}

	to, err = parse("to")
	if err != nil {
		return nil, nil, err
	}

	return from, to, nil
}
