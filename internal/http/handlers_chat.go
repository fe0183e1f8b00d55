package http

import (
	"net/http"

	"catty/internal/chat"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	message := sanitizeInput(req.Message)
	if message == "" {
		writeError(w, http.StatusUnprocessableEntity, "message cannot be empty")
		return
	}

	today := s.today()
	spendingContext := ""
	if txs, err := s.transactions.List(r.Context()); err == nil {
		spendingContext = chat.BuildContext(txs, s.settings.Current(today), today)
	}
	// A failed list just means the model answers without ledger context.

	writeJSON(w, http.StatusOK, chatResponse{
		Reply: s.chat.Reply(r.Context(), spendingContext, message),
	})
}
