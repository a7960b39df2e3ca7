// Assistant HTTP handlers.
//
// Authenticated callers talk in the session "user:<id>"; guests send an
// X-Session-ID header (one is issued when absent) and talk in
// "guest:<X-Session-ID>".
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// AssistantMessageRequest is free text typed into the assistant.
type AssistantMessageRequest struct {
	Text string `json:"text" example:"how do I report garbage?"`
}

// AssistantActionRequest is a button action token.
type AssistantActionRequest struct {
	Action string `json:"action" example:"municipal-info"`
}

// TurnsResponse carries the turns produced by one request.
type TurnsResponse struct {
	Turns []domain.ConversationTurn `json:"turns"`
}

// AssistantHistoryResponse is a page of the session transcript.
type AssistantHistoryResponse struct {
	Turns      []domain.ConversationTurn `json:"turns"`
	Pagination Pagination                `json:"pagination"`
}

// AssistantState godoc
// @ID          assistantState
// @Summary     Assistant session state
// @Description Open/composing flags and whether the unread badge should show.
// @Tags        Assistant
// @Produce     json
// @Param       X-Session-ID  header  string  false  "Guest session id"
// @Success     200  {object}  services.AssistantState
// @Router      /assistant/state [get]
func (h *Handlers) AssistantState(c *gin.Context) {
	sid, _, okSess := h.assistantSession(c)
	if !okSess {
		return
	}
	st, err := h.Assistant.State(c.Request.Context(), sid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// OpenAssistant godoc
// @ID          openAssistant
// @Summary     Open the assistant
// @Description Opens the session and records that the caller has seen the assistant.
// @Tags        Assistant
// @Produce     json
// @Param       X-Session-ID  header  string  false  "Guest session id"
// @Success     200  {object}  services.AssistantState
// @Router      /assistant/open [post]
func (h *Handlers) OpenAssistant(c *gin.Context) {
	sid, _, okSess := h.assistantSession(c)
	if !okSess {
		return
	}
	st, err := h.Assistant.Open(c.Request.Context(), sid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// CloseAssistant godoc
// @ID          closeAssistant
// @Summary     Close the assistant
// @Tags        Assistant
// @Produce     json
// @Param       X-Session-ID  header  string  false  "Guest session id"
// @Success     200  {object}  services.AssistantState
// @Router      /assistant/close [post]
func (h *Handlers) CloseAssistant(c *gin.Context) {
	sid, _, okSess := h.assistantSession(c)
	if !okSess {
		return
	}
	st, err := h.Assistant.Close(c.Request.Context(), sid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// ListAssistantMessages godoc
// @ID          listAssistantMessages
// @Summary     Assistant transcript
// @Description Paginated transcript in order of appending. Supports weak ETag via If-None-Match.
// @Tags        Assistant
// @Produce     json
// @Param       X-Session-ID   header  string  false  "Guest session id"
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.AssistantHistoryResponse
// @Success     304  {string}  string  "Not Modified"
// @Router      /assistant/messages [get]
func (h *Handlers) ListAssistantMessages(c *gin.Context) {
	ctx := c.Request.Context()
	sid, _, okSess := h.assistantSession(c)
	if !okSess {
		return
	}

	// ETag pre-check (best effort).
	if n, maxTS, err := h.Assistant.Version(ctx, sid); err == nil && notModified(c, "assistant:"+sid, n, maxTS) {
		return
	}

	page, pageSize := clampPagination(c)
	items, total, err := h.Assistant.History(ctx, sid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, AssistantHistoryResponse{Turns: items, Pagination: newPagination(page, pageSize, total)})
}

// PostAssistantMessage godoc
// @ID          postAssistantMessage
// @Summary     Talk to the assistant
// @Description Appends the text and the assistant's reply after a short typing delay.
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string                              false  "Guest session id"
// @Param       body          body    handlers.AssistantMessageRequest  true   "Text"
// @Success     200  {object}  handlers.TurnsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Assistant still composing"
// @Router      /assistant/messages [post]
func (h *Handlers) PostAssistantMessage(c *gin.Context) {
	var req AssistantMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sid, user, okSess := h.assistantSession(c)
	if !okSess {
		return
	}
	turns, err := h.Assistant.Send(c.Request.Context(), sid, user, req.Text)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, TurnsResponse{Turns: turns})
}

// PostAssistantAction godoc
// @ID          postAssistantAction
// @Summary     Press an assistant button
// @Description Dispatches an action token. Unknown tokens and unknown report ids produce no turns.
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string                             false  "Guest session id"
// @Param       body          body    handlers.AssistantActionRequest  true   "Action"
// @Success     200  {object}  handlers.TurnsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /assistant/actions [post]
func (h *Handlers) PostAssistantAction(c *gin.Context) {
	var req AssistantActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Action == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action required")
		return
	}
	sid, user, okSess := h.assistantSession(c)
	if !okSess {
		return
	}
	turns, err := h.Assistant.Action(c.Request.Context(), sid, user, req.Action)
	if err != nil {
		serviceFail(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, TurnsResponse{Turns: turns})
}
