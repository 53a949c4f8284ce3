package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/notify"
	"github.com/fieldcrew/statsync/internal/service"
)

// ReportServiceInterface defines the report service methods
type ReportServiceInterface interface {
	Send(ctx context.Context, period domain.ReportPeriod, emailRecipients, smsRecipients []string) (*service.SendResult, error)
	RenderPreview(ctx context.Context, period domain.ReportPeriod) (digest, summary string, err error)
}

// Recipients are the default delivery lists used when a send request
// does not carry its own
type Recipients struct {
	Email []string
	SMS   []string
}

// ReportEnqueuer pushes a report delivery onto the background queue
type ReportEnqueuer interface {
	EnqueueReportSend(ctx context.Context, period domain.ReportPeriod) error
}

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reports    ReportServiceInterface
	sync       SyncServiceInterface
	recipients Recipients
	queue      ReportEnqueuer
}

// NewReportHandler creates a new ReportHandler. The queue may be nil
// when no Redis backend is configured; async sends are then rejected.
func NewReportHandler(reports ReportServiceInterface, sync SyncServiceInterface, recipients Recipients, queue ReportEnqueuer) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		sync:       sync,
		recipients: recipients,
		queue:      queue,
	}
}

// SendRequest is the body of POST /api/v1/reports/send
type SendRequest struct {
	Period          domain.ReportPeriod `json:"period"`
	EmailRecipients []string            `json:"email_recipients"`
	SMSRecipients   []string            `json:"sms_recipients"`
	SkipSync        bool                `json:"skip_sync"`
}

// SendResponse reports what the combined sync-and-send accomplished
type SendResponse struct {
	SyncRun *domain.SyncRun     `json:"sync_run,omitempty"`
	Result  *service.SendResult `json:"result"`
}

// Send handles POST /api/v1/reports/send. It refreshes the aggregates
// first so the delivered report reflects the CRM right now, then fans
// the rendered report out.
func (h *ReportHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req := SendRequest{Period: domain.PeriodYesterday}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RenderError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Period == "" {
		req.Period = domain.PeriodYesterday
	}
	if !req.Period.IsValid() {
		RenderError(w, http.StatusBadRequest, "Unknown report period: "+string(req.Period))
		return
	}

	// Async sends always go out to the configured recipient lists, the
	// worker has no request to read overrides from.
	if r.URL.Query().Get("async") == "true" {
		if h.queue == nil {
			RenderError(w, http.StatusConflict, "Background queue is not configured")
			return
		}
		if err := h.queue.EnqueueReportSend(r.Context(), req.Period); err != nil {
			RenderError(w, http.StatusInternalServerError, "Failed to enqueue report: "+err.Error())
			return
		}
		RenderJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "period": string(req.Period)})
		return
	}

	emails := req.EmailRecipients
	if emails == nil {
		emails = h.recipients.Email
	}
	sms := req.SMSRecipients
	if sms == nil {
		sms = h.recipients.SMS
	}

	resp := SendResponse{}

	if !req.SkipSync {
		run, err := h.sync.Run(r.Context())
		if err != nil {
			log.Printf("[Reports] Sync before send failed: %v", err)
			RenderError(w, syncErrorStatus(err), "Sync failed: "+err.Error())
			return
		}
		resp.SyncRun = run
	}

	result, err := h.reports.Send(r.Context(), req.Period, emails, sms)
	if err != nil {
		RenderError(w, sendErrorStatus(err), "Failed to send report: "+err.Error())
		return
	}
	resp.Result = result

	RenderJSON(w, http.StatusOK, resp)
}

// PreviewResponse is the body of GET /api/v1/reports/{period}
type PreviewResponse struct {
	Period  domain.ReportPeriod `json:"period"`
	Digest  string              `json:"digest"`
	Summary string              `json:"summary"`
}

// Preview handles GET /api/v1/reports/{period}. It renders both
// representations without delivering anything.
func (h *ReportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	period := domain.ReportPeriod(r.PathValue("period"))
	if !period.IsValid() {
		RenderError(w, http.StatusBadRequest, "Unknown report period: "+string(period))
		return
	}

	digest, summary, err := h.reports.RenderPreview(r.Context(), period)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to render report: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, PreviewResponse{
		Period:  period,
		Digest:  digest,
		Summary: summary,
	})
}

func sendErrorStatus(err error) int {
	if errors.Is(err, notify.ErrChannelUnavailable) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
