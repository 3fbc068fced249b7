package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/validation"
	"github.com/gin-gonic/gin"
)

var errBodyTooLarge = &common.Error{Kind: common.KindValidation, Message: "Request body too large",
	Violations: []common.Violation{{Field: "body", Message: "Request body too large"}}}

var errBadJSON = &common.Error{Kind: common.KindValidation, Message: common.ErrValidation.Message,
	Violations: []common.Violation{{Field: "body", Message: "Invalid JSON body"}}}

// bind decodes the JSON body into dst. An empty body leaves dst zero so that
// validation reports every missing field.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case isBodyTooLarge(err):
			return errBodyTooLarge
		default:
			return errBadJSON
		}
	}
	return nil
}

func (s *Server) signup(c *gin.Context) {
	var in validation.SignupInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.users.Signup(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusCreated, "User registered successfully", res)
}

func (s *Server) login(c *gin.Context) {
	var in validation.LoginInput
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.users.Login(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Login successful", res)
}

func (s *Server) me(c *gin.Context) {
	id, err := s.users.CurrentIdentity(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "User retrieved successfully", gin.H{"user": id})
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

func (s *Server) healthCheck(c *gin.Context) {
	report := s.checker.Check(c.Request.Context())
	code := http.StatusOK
	if !report.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

func (s *Server) noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
}
