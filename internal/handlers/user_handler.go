package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/shelf/internal/models"
	"github.com/joshua-takyi/shelf/internal/services"
)

// GetProfileScreen opens the profile editor for the caller's session.
func GetProfileScreen() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		if err := session.Profile.Enter(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(session.Profile.View(), ""))
	}
}

func EditProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.ProfilePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		if err := session.Profile.Enter(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		session.Profile.Edit(patch)
		c.JSON(http.StatusOK, models.SuccessResponse(session.Profile.View(), ""))
	}
}

func SaveProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		screen := session.Profile
		if err := screen.Enter(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		if err := screen.Save(c.Request.Context()); err != nil {
			respondError(c, err, screen.View())
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(screen.View(), "Profile saved successfully!"))
	}
}

func ResetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		screen := session.Profile
		if err := screen.Enter(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		if err := screen.Reset(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(screen.View(), ""))
	}
}

func DeleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		screen := session.Profile
		if err := screen.Enter(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		outcome, err := screen.Delete(c.Request.Context())
		if err != nil {
			respondError(c, err, nil)
			return
		}

		message := "Press delete again to confirm."
		if outcome == services.DeleteProfileErased {
			message = "Account deleted."
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"outcome": outcome,
			"screen":  screen.View(),
		}, message))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		if err := session.Profile.Logout(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(session.Profile.View(), "Logged out"))
	}
}

// UploadAvatar sets the draft avatar from a multipart "avatar" file. The
// profile is not persisted until the next save.
func UploadAvatar(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("avatar file is required"))
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		defer file.Close()

		uri, err := p.AvatarURI(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			respondError(c, err, nil)
			return
		}

		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		if err := session.Profile.Enter(c.Request.Context()); err != nil {
			respondError(c, err, nil)
			return
		}
		session.Profile.SetAvatar(uri)
		c.JSON(http.StatusOK, models.SuccessResponse(session.Profile.View(), ""))
	}
}
