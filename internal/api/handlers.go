package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/chart"
	"github.com/sells-group/worldpop-cli/internal/model"
	"github.com/sells-group/worldpop-cli/internal/store"
)

type healthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Years   []int  `json:"years"`
}

type projectionResponse struct {
	Projection *model.Projection `json:"projection"`
	Series     model.TrendSeries `json:"series"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Records: s.table.Len(), Years: s.table.Years()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", s.opts.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	top, err := intParam(r, "top", s.opts.TopN)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := analysis.Aggregate(s.table, year, top)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	name, err := countryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	series, err := analysis.Extract(s.table, name, analysis.CensusYears)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	name, err := countryParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	target, err := intParam(r, "target", s.opts.TargetYear)
	if err != nil {
		writeError(w, r, err)
		return
	}

	proj, series, err := analysis.Project(s.table, name, analysis.CensusYears, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{Projection: proj, Series: series})
}

func (s *Server) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = chart.MetricPopulation
	}
	year, err := intParam(r, "year", s.opts.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fc, err := chart.Choropleth(s.table, year, metric, s.opts.Shapes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONType(w, http.StatusOK, "application/geo+json", fc)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	fc, err := chart.Cities(s.opts.Cities)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONType(w, http.StatusOK, "application/geo+json", fc)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "run store not configured", Kind: "unavailable"})
		return
	}
	limit, err := intParam(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	runs, err := s.opts.Store.ListRuns(r.Context(), store.RunFilter{
		Dataset: r.URL.Query().Get("dataset"),
		Country: r.URL.Query().Get("country"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "run store not configured", Kind: "unavailable"})
		return
	}
	run, err := s.opts.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Wrapf(errBadRequest, "%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func countryParam(r *http.Request) (string, error) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return "", eris.Wrapf(errBadRequest, "country name: %v", err)
	}
	return name, nil
}
