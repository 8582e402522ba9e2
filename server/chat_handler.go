package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/teneola/staffx/errors"
	"github.com/teneola/staffx/server/response"
)

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errs.New("invalid "+name, http.StatusBadRequest)
	}
	return uint(v), nil
}

// handleChatHistory returns every message between the two users, oldest
// first. The caller must be one of the two participants.
func (s *Server) handleChatHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseUintParam(c, "userID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		otherUserID, err := parseUintParam(c, "otherUserID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		callerID := c.GetUint("userID")
		if callerID != userID && callerID != otherUserID {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("not a participant of this conversation", http.StatusForbidden))
			return
		}

		msgs, err := s.ChatService.GetHistory(userID, otherUserID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, msgs, nil)
	}
}

// handleChatUsers returns the ranked conversation list for the viewer.
func (s *Server) handleChatUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID, err := parseUintParam(c, "userID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if c.GetUint("userID") != viewerID {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("cannot view another user's conversations", http.StatusForbidden))
			return
		}

		list, err := s.ChatService.RankedConversations(viewerID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// overlay live presence onto the directory status
		for i := range list {
			list[i].Status = s.Hub.Status(list[i].ID)
		}
		response.JSON(c, "", http.StatusOK, list, nil)
	}
}

func (s *Server) handleUnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID, err := parseUintParam(c, "userID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if c.GetUint("userID") != viewerID {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("cannot view another user's unread count", http.StatusForbidden))
			return
		}

		count, err := s.ChatService.CountUnread(viewerID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"count": count}, nil)
	}
}

// handleMarkRead marks everything the partner sent to the viewer as read and
// notifies the partner's live connections.
func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID, err := parseUintParam(c, "userID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		partnerID, err := parseUintParam(c, "otherUserID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if c.GetUint("userID") != viewerID {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("cannot mark another user's messages", http.StatusForbidden))
			return
		}

		updated, err := s.ChatService.MarkRead(viewerID, partnerID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if updated > 0 {
			s.Hub.NotifyRead(partnerID, viewerID)
		}
		response.JSON(c, "messages marked as read", http.StatusOK, gin.H{"updated": updated}, nil)
	}
}

func respondServiceError(c *gin.Context, err error) {
	if apiErr, ok := err.(*errs.Error); ok {
		response.JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	response.JSON(c, "", http.StatusInternalServerError, nil, err)
}
