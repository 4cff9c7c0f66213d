// Package server exposes the HTTP boundary: the scrape trigger, status and
// data queries, and the relay submission endpoint (plus a small manual-entry
// form).
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/history"
	"github.com/guarzo/ticketdesk/internal/model"
	"github.com/guarzo/ticketdesk/internal/relay"
	"github.com/guarzo/ticketdesk/internal/report"
	"github.com/guarzo/ticketdesk/internal/scrape"
)

type Handler struct {
	cfg    *config.Config
	runner *scrape.Runner
	store  *history.Store
	relay  *relay.Store
}

// New builds the gin engine with all routes registered.
func New(cfg *config.Config, runner *scrape.Runner, store *history.Store, relayStore *relay.Store) *gin.Engine {
	h := &Handler{cfg: cfg, runner: runner, store: store, relay: relayStore}

	r := gin.New()
	r.Use(gin.Recovery(), cors())

	r.GET("/", h.root)
	r.GET("/status", h.status)
	r.GET("/data", h.data)
	r.GET("/data.csv", h.dataCSV)
	r.GET("/relay", h.relayForm)

	authed := r.Group("/", h.requireToken)
	{
		authed.GET("/scrape", h.triggerScrape)
		authed.POST("/relay", h.submitRelay)
	}

	return r
}

// cors emits the permissive headers the dashboard relies on. The feed is
// read-only public data; mutation routes are token-gated separately.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Scrape-Token")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requireToken accepts the shared secret via ?token= or X-Scrape-Token.
func (h *Handler) requireToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("X-Scrape-Token")
	}
	if token != h.cfg.ScrapeToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   h.cfg.Service,
		"event":     h.cfg.Event,
		"endpoints": []string{"/status", "/scrape?token=XXX", "/data", "/relay"},
		"status":    "ok",
	})
}

func (h *Handler) status(c *gin.Context) {
	state := h.runner.State()
	c.JSON(http.StatusOK, gin.H{
		"service":      h.cfg.Service,
		"running":      state.Running,
		"last_success": state.LastSuccess,
		"last_error":   state.LastError,
		"started_at":   state.StartedAt,
		"relay_cache":  h.relay.Freshness(),
	})
}

func (h *Handler) triggerScrape(c *gin.Context) {
	started, startedAt := h.runner.Start()
	if !started {
		c.JSON(http.StatusOK, gin.H{"status": "already_running", "started_at": startedAt})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "started"})
}

func (h *Handler) data(c *gin.Context) {
	raw, ok := h.store.Document()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data yet — trigger /scrape first"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// dataCSV serves the history as a spreadsheet-importable download.
func (h *Handler) dataCSV(c *gin.Context) {
	raw, ok := h.store.Document()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data yet — trigger /scrape first"})
		return
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored document unreadable"})
		return
	}

	out, err := report.HistoryCSV(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ticket_history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
}

func (h *Handler) submitRelay(c *gin.Context) {
	var sub relay.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	entry, err := h.relay.Ingest(sub)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted", "entry": entry})
}

// relayForm serves the manual relay-entry page. Submissions still go through
// the token-gated POST.
func (h *Handler) relayForm(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(relayFormHTML))
}

const relayFormHTML = `<!DOCTYPE html>
<html>
<head><title>Ticket Desk — Relay Entry</title></head>
<body>
<h2>Relay price entry</h2>
<p>Submit a per-platform summary for today (UTC) when direct scraping is blocked.</p>
<form onsubmit="send(event)">
  <label>Token <input id="token" type="password"></label><br>
  <label>Platform <select id="platform">
    <option>stubhub</option><option>seatgeek</option>
    <option>tickpick</option><option>ticketmaster</option>
  </select></label><br>
  <label>Floor <input id="floor" type="number" step="0.01"></label><br>
  <label>Median <input id="median" type="number" step="0.01"></label><br>
  <label>Sample count <input id="count" type="number" value="0"></label><br>
  <button>Submit</button>
</form>
<pre id="out"></pre>
<script>
async function send(e) {
  e.preventDefault();
  const body = {
    platform: document.getElementById('platform').value,
    floor: parseFloat(document.getElementById('floor').value),
    median: parseFloat(document.getElementById('median').value),
    sample_count: parseInt(document.getElementById('count').value || '0', 10),
  };
  const resp = await fetch('/relay?token=' + encodeURIComponent(document.getElementById('token').value), {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  });
  document.getElementById('out').textContent = JSON.stringify(await resp.json(), null, 2);
}
</script>
</body>
</html>`
