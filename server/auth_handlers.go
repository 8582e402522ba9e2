package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/teneola/staffx/errors"
	"github.com/teneola/staffx/models"
	"github.com/teneola/staffx/server/response"
)

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := c.ShouldBindJSON(&loginRequest); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		userResponse, apiErr := s.UserService.LoginUser(&loginRequest)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, user, nil)
	}
}

func (s *Server) handleGetAllUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.UserService.GetAllUsers()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, users, nil)
	}
}

// handleGetOnlineUsers reads the presence registry, not a DB flag: the hub is
// the source of truth for who currently has a live connection.
func (s *Server) handleGetOnlineUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := s.Hub.OnlineUserIDs()
		online := make([]gin.H, 0, len(ids))
		for _, id := range ids {
			online = append(online, gin.H{
				"id":     id,
				"status": s.Hub.Status(id),
			})
		}
		response.JSON(c, "", http.StatusOK, gin.H{"count": len(online), "users": online}, nil)
	}
}

func GetUserFromContext(c *gin.Context) (*models.User, error) {
	if userI, exists := c.Get("user"); exists {
		if user, ok := userI.(*models.User); ok {
			return user, nil
		}
		return nil, errs.New("user is not logged in", http.StatusUnauthorized)
	}
	return nil, errs.New("user is not logged in", http.StatusUnauthorized)
}
