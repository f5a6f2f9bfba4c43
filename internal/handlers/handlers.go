package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// responder writes error bodies; stack detail is only exposed outside production
type responder struct {
	production bool
}

func (r responder) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{"message": apperrors.PublicMessage(err)}
	if !r.production {
		body["stack"] = err.Error()
	}
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), body)
}

func (r responder) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// owner returns the authenticated user id or aborts with 401
func owner(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
	}
	return id, ok
}

// pathID parses an ObjectID route parameter. A malformed id is reported the
// same way as an unknown one.
func (r responder) pathID(c *gin.Context, param, resource string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		r.fail(c, apperrors.NotFound(resource))
		return primitive.NilObjectID, false
	}
	return id, true
}
