package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/session"
	"github.com/Gunvolt24/wf_cart/internal/usecase"
	"github.com/Gunvolt24/wf_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/wf_cart/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxRuntime = "cart.runtime"

type addItemRequest struct {
	Item     domain.CartItem `json:"item"`
	Quantity int             `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

type notificationsRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *Handler) createSession(c *gin.Context) {
	id := uuid.NewString()
	h.sessions.GetOrCreate(c.Request.Context(), id)
	c.JSON(http.StatusCreated, gin.H{"sessionId": id})
}

// requireSession - проверяет id из пути и кладёт рантайм сессии в gin.Context.
// Аксессоры корзины и уведомлений не падают: на плохой id отвечают null / {}.
func (h *Handler) requireSession(c *gin.Context) {
	sid := c.Param("sid")
	if !reSessionID.MatchString(sid) {
		switch c.FullPath() {
		case "/sessions/:sid/cart":
			if c.Request.Method == http.MethodGet {
				c.AbortWithStatusJSON(http.StatusOK, nil)
				return
			}
		case "/sessions/:sid/notifications":
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	ctx := ctxmeta.WithSessionID(c.Request.Context(), sid)
	c.Request = c.Request.WithContext(ctx)
	c.Set(ctxRuntime, h.sessions.GetOrCreate(ctx, sid))
	c.Next()
}

func (h *Handler) dropSession(c *gin.Context) {
	h.sessions.Delete(c.Param("sid"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) hello(c *gin.Context) {
	var hello domain.FrameHello
	if err := c.ShouldBindJSON(&hello); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid frame hello"})
		return
	}
	hello.SessionID = c.Param("sid")
	for target := range hello.Frames {
		switch target {
		case domain.FrameSelf, domain.FrameParent, domain.FrameTop:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown frame " + string(target)})
			return
		}
	}

	tier := sessionRuntime(c).Hello(c.Request.Context(), hello)
	c.JSON(http.StatusOK, gin.H{"tier": tier})
}

func (h *Handler) page(c *gin.Context) {
	c.JSON(http.StatusOK, sessionRuntime(c).Page())
}

func (h *Handler) commands(c *gin.Context) {
	c.JSON(http.StatusOK, sessionRuntime(c).Drain())
}

func (h *Handler) notifications(c *gin.Context) {
	c.JSON(http.StatusOK, sessionRuntime(c).Notifications())
}

func (h *Handler) cart(c *gin.Context) {
	c.JSON(http.StatusOK, sessionRuntime(c).Cart())
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item"})
		return
	}
	if err := validate.Item(req.Item, req.Quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": userError(err, validate.ErrInvalidItem)})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	state, err := sessionRuntime(c).AddItem(ctx, req.Item, req.Quantity)
	h.writeCart(c, state, err)
}

func (h *Handler) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	// quantity <= 0 удаляет позицию, поэтому ограничена только сверху
	if *req.Quantity > domain.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": userError(validate.Quantity(*req.Quantity), validate.ErrInvalidItem)})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	state, err := sessionRuntime(c).UpdateItem(ctx, c.Param("sku"), *req.Quantity)
	h.writeCart(c, state, err)
}

func (h *Handler) removeItem(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	state, err := sessionRuntime(c).RemoveItem(ctx, c.Param("sku"))
	h.writeCart(c, state, err)
}

func (h *Handler) clearCart(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	state, err := sessionRuntime(c).ClearCart(ctx)
	h.writeCart(c, state, err)
}

func (h *Handler) setNotifications(c *gin.Context) {
	var req notificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}
	c.JSON(http.StatusOK, sessionRuntime(c).SetNotificationsEnabled(*req.Enabled))
}

func (h *Handler) user(c *gin.Context) {
	user, ok := sessionRuntime(c).User(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, user)
}

// signIn - страница сообщает о вошедшем пользователе (после логина на стороне магазина).
func (h *Handler) signIn(c *gin.Context) {
	var user domain.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	rt := sessionRuntime(c)
	if err := rt.SignIn(ctx, user); err != nil {
		if errors.Is(err, usecase.ErrInvalidUser) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf(ctx, "sign in failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pendingCheckout": rt.PendingCheckout(ctx)})
}

func (h *Handler) signOut(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := sessionRuntime(c).SignOut(ctx); err != nil {
		h.log.Errorf(ctx, "sign out failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) checkoutState(c *gin.Context) {
	c.JSON(http.StatusOK, sessionRuntime(c).Checkout())
}

func (h *Handler) startCheckout(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	c.JSON(http.StatusOK, sessionRuntime(c).StartCheckout(ctx))
}

func (h *Handler) selectCheckout(c *gin.Context) {
	var sel usecase.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection"})
		return
	}
	c.JSON(http.StatusOK, sessionRuntime(c).SelectCheckout(sel))
}

// submitCheckout - отправка не отменяется вместе с запросом: она ограничена
// только таймаутом клиента магазина.
func (h *Handler) submitCheckout(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	out := sessionRuntime(c).SubmitCheckout(ctx)
	if out.Err != nil {
		h.log.Warnf(ctx, "checkout rejected reason=%s err=%v", out.Reason, out.Err)
	}
	c.JSON(http.StatusOK, out)
}

// ------ вспомогательные функции ------

func sessionRuntime(c *gin.Context) *session.Runtime {
	return c.MustGet(ctxRuntime).(*session.Runtime)
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// userError - текст ошибки валидации без префикса sentinel-ошибки.
func userError(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// writeCart - состояние корзины; ошибка записи снимка не мешает ответу.
func (h *Handler) writeCart(c *gin.Context, state domain.CartState, err error) {
	switch {
	case err == nil:
		c.Header(HeaderPersisted, "true")
	case errors.Is(err, usecase.ErrPersist):
		h.log.Warnf(c.Request.Context(), "cart not persisted: %v", err)
		c.Header(HeaderPersisted, "false")
	default:
		h.log.Errorf(c.Request.Context(), "cart mutation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, state)
}
