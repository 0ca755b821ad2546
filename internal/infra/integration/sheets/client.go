package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/http/middleware"
)

// Client calls the spreadsheet script. Every action is a GET on the same URL
// with the action name and a JSON "datos" query parameter; the script platform
// mishandles POST redirects, so POST is never used.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient uses an http.Client without an explicit timeout: calls end when the
// transport gives up or ctx is cancelled.
func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     log,
	}
}

// Call issues one action and returns the decoded envelope, including ok:false
// envelopes. Only transport, HTTP and decoding failures are returned as errors.
func (c *Client) Call(ctx context.Context, action string, payload interface{}) (*Envelope, error) {
	start := time.Now()
	env, err := c.call(ctx, action, payload)
	middleware.RecordGatewayCall(action, outcome(env, err), time.Since(start))
	return env, err
}

func (c *Client) call(ctx context.Context, action string, payload interface{}) (*Envelope, error) {
	target, datos, err := c.buildURL(action, payload)
	if err != nil {
		return nil, err
	}

	c.log.Debug("gateway call",
		zap.String("action", action),
		zap.Int("datos_bytes", len(datos)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("error al construir la petición %s: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// a caller that went away is not an unreachable gateway
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.log.Debug("gateway call abandoned", zap.String("action", action), zap.Error(ctxErr))
			return nil, ctxErr
		}
		c.log.Warn("gateway unreachable", zap.String("action", action), zap.Error(err))
		return nil, &NetworkError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("gateway http error",
			zap.String("action", action),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &HTTPError{Action: action, StatusCode: resp.StatusCode}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.log.Warn("gateway decode error", zap.String("action", action), zap.Error(err))
		return nil, &DecodeError{Action: action, Err: err}
	}

	c.log.Debug("gateway response",
		zap.String("action", action),
		zap.Bool("ok", env.OK),
		zap.String("mensaje", env.Mensaje),
	)
	return &env, nil
}

func (c *Client) buildURL(action string, payload interface{}) (string, string, error) {
	params := url.Values{}
	params.Set("action", action)

	var datos string
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return "", "", fmt.Errorf("error al serializar datos de %s: %w", action, err)
		}
		if s := string(b); s != "{}" && s != "null" {
			datos = s
			params.Set("datos", datos)
		}
	}

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + params.Encode(), datos, nil
}

// expectOK turns an ok:false envelope into a *RemoteError.
func (c *Client) expectOK(ctx context.Context, action string, payload interface{}) (*Envelope, error) {
	env, err := c.Call(ctx, action, payload)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return env, &RemoteError{Action: action, Message: env.Mensaje}
	}
	return env, nil
}

func decodeDatos(action string, env *Envelope, v interface{}) (bool, error) {
	if !hasDatos(env.Datos) {
		return false, nil
	}
	if err := json.Unmarshal(env.Datos, v); err != nil {
		return false, &DecodeError{Action: action, Err: err}
	}
	return true, nil
}

func outcome(env *Envelope, err error) string {
	switch {
	case err == nil && env.OK:
		return "ok"
	case err == nil:
		return "rejected"
	case IsNetwork(err):
		return "network"
	case IsHTTP(err):
		return "http"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "decode"
	}
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.expectOK(ctx, ActionPing, nil)
	return err
}

// ListLeads reads every lead, narrowed server-side to one ambassador when
// embajador is not empty.
func (c *Client) ListLeads(ctx context.Context, embajador string) ([]entity.Lead, error) {
	env, err := c.expectOK(ctx, ActionListLeads, listLeadsRequest{Embajador: embajador})
	if err != nil {
		return nil, err
	}
	var leads []entity.Lead
	if _, err := decodeDatos(ActionListLeads, env, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *Client) CreateLead(ctx context.Context, lead entity.LeadInput) (*Envelope, error) {
	return c.expectOK(ctx, ActionCreateLead, lead)
}

func (c *Client) UpdateLead(ctx context.Context, fila int, cambios entity.LeadChanges) (*Envelope, error) {
	return c.expectOK(ctx, ActionUpdateLead, updateLeadRequest{Fila: fila, Cambios: cambios})
}

func (c *Client) UpdateStage(ctx context.Context, fila int, etapa entity.Stage) (*Envelope, error) {
	return c.expectOK(ctx, ActionUpdateLeadStage, updateStageRequest{Fila: fila, Etapa: string(etapa)})
}

func (c *Client) DeleteLead(ctx context.Context, fila int) (*Envelope, error) {
	return c.expectOK(ctx, ActionDeleteLead, rowRequest{Fila: fila})
}

// ReadRow returns nil without error when the script answers without datos.
func (c *Client) ReadRow(ctx context.Context, fila int) (*entity.Lead, error) {
	env, err := c.expectOK(ctx, ActionReadRow, rowRequest{Fila: fila})
	if err != nil {
		return nil, err
	}
	var lead entity.Lead
	found, err := decodeDatos(ActionReadRow, env, &lead)
	if err != nil || !found {
		return nil, err
	}
	if lead.Row == nil {
		lead.Row = &fila
	}
	return &lead, nil
}

// Login returns the authenticated user. A success envelope without datos is
// treated as a rejection.
func (c *Client) Login(ctx context.Context, email, password string) (*entity.User, error) {
	env, err := c.expectOK(ctx, ActionLogin, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var user entity.User
	found, err := decodeDatos(ActionLogin, env, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &RemoteError{Action: ActionLogin, Message: env.Mensaje}
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]entity.User, error) {
	env, err := c.expectOK(ctx, ActionListUsers, nil)
	if err != nil {
		return nil, err
	}
	var users []entity.User
	if _, err := decodeDatos(ActionListUsers, env, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, input entity.UserInput) (*Envelope, error) {
	return c.expectOK(ctx, ActionCreateUser, input)
}

func (c *Client) UpdateUser(ctx context.Context, id string, changes entity.UserChanges) (*Envelope, error) {
	return c.expectOK(ctx, ActionUpdateUser, updateUserRequest{ID: id, Changes: changes})
}

func (c *Client) DeleteUser(ctx context.Context, id string) (*Envelope, error) {
	return c.expectOK(ctx, ActionDeleteUser, userIDRequest{ID: id})
}
