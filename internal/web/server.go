package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/clickchess/internal/domain"
	svcchess "github.com/park285/clickchess/internal/service/chess"
)

//go:embed static/index.html
var indexTemplate string

const (
	headerRequestID = "X-Request-Id"
	msgBadCoord     = "invalid grid coordinate"
)

type Server struct {
	session     *svcchess.Session
	renderer    svcchess.BoardRenderer
	logger      *zap.Logger
	redirectURL string
	title       string
	index       []byte

	http *fasthttp.Server
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRedirectURL sets where click and reset requests send the browser back to.
func WithRedirectURL(u string) Option {
	return func(s *Server) {
		if strings.TrimSpace(u) != "" {
			s.redirectURL = u
		}
	}
}

// WithTitle sets the page title of the board index.
func WithTitle(title string) Option {
	return func(s *Server) {
		if strings.TrimSpace(title) != "" {
			s.title = title
		}
	}
}

func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.http.ReadTimeout = read
		s.http.WriteTimeout = write
	}
}

func NewServer(session *svcchess.Session, renderer svcchess.BoardRenderer, opts ...Option) (*Server, error) {
	s := &Server{
		session:     session,
		renderer:    renderer,
		logger:      zap.NewNop(),
		redirectURL: "/",
		title:       "Chess",
		http: &fasthttp.Server{
			Name:         "clickchess",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	index, err := renderIndex(s.title)
	if err != nil {
		return nil, err
	}
	s.index = index
	s.http.Handler = s.accessLog(s.route)
	s.http.Logger = zap.NewStdLog(s.logger)
	return s, nil
}

type cell struct{ Row, Col int }

func renderIndex(title string) ([]byte, error) {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, err
	}
	rows := make([][]cell, domain.BoardSize)
	for r := range rows {
		rows[r] = make([]cell, domain.BoardSize)
		for c := range rows[r] {
			rows[r][c] = cell{Row: r, Col: c}
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Title string
		Rows  [][]cell
	}{title, rows}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Handler exposes the routed handler with access logging.
func (s *Server) Handler() fasthttp.RequestHandler { return s.http.Handler }

func (s *Server) Serve(ln net.Listener) error { return s.http.Serve(ln) }

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.http.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.ShutdownWithContext(ctx)
}

func (s *Server) accessLog(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		id := uuid.NewString()
		ctx.SetUserValue(headerRequestID, id)
		ctx.Response.Header.Set(headerRequestID, id)
		next(ctx)
		s.logger.Info("http request",
			zap.String("request_id", id),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	handler := s.lookup(path)
	if handler == nil {
		ctx.Error("not found", fasthttp.StatusNotFound)
		return
	}
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Response.Header.Set(fasthttp.HeaderAllow, "GET, HEAD")
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	handler(ctx)
}

func (s *Server) lookup(path string) fasthttp.RequestHandler {
	switch path {
	case "/", "/index.html":
		return s.handleIndex
	case "/click-grid":
		return s.handleClick
	case "/render-moves":
		return s.handleMoves
	case "/reset-board":
		return s.handleReset
	case "/render-reset":
		return s.handleResetButton
	case "/state":
		return s.handleState
	case "/healthz":
		return s.handleHealth
	}
	if strings.HasPrefix(path, "/render-grid/") {
		return s.handleSquare
	}
	return nil
}

func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	noCache(ctx)
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(s.index)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString("ok")
}

func (s *Server) handleClick(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	row, errR := strconv.Atoi(string(args.Peek("r")))
	col, errC := strconv.Atoi(string(args.Peek("c")))
	if errR != nil || errC != nil {
		ctx.Error(msgBadCoord, fasthttp.StatusBadRequest)
		return
	}
	s.session.Click(row, col)
	s.redirect(ctx)
}

func (s *Server) handleReset(ctx *fasthttp.RequestCtx) {
	s.session.Reset()
	s.redirect(ctx)
}

func (s *Server) redirect(ctx *fasthttp.RequestCtx) {
	noCache(ctx)
	ctx.Response.Header.Set(fasthttp.HeaderLocation, s.redirectURL)
	ctx.SetStatusCode(fasthttp.StatusSeeOther)
}

func (s *Server) handleSquare(ctx *fasthttp.RequestCtx) {
	parts := strings.Split(strings.TrimPrefix(string(ctx.Path()), "/render-grid/"), "/")
	if len(parts) != 2 {
		ctx.Error("not found", fasthttp.StatusNotFound)
		return
	}
	row, errR := strconv.Atoi(parts[0])
	col, errC := strconv.Atoi(parts[1])
	if errR != nil || errC != nil {
		ctx.Error(msgBadCoord, fasthttp.StatusBadRequest)
		return
	}
	view, ok := s.session.Snapshot().SquareView(row, col)
	if !ok {
		ctx.Error("square out of range", fasthttp.StatusNotFound)
		return
	}
	img, err := s.renderer.Square(ctx, view, formatOf(ctx))
	s.writeImage(ctx, img, err)
}

func (s *Server) handleMoves(ctx *fasthttp.RequestCtx) {
	img, err := s.renderer.Moves(ctx, s.session.Snapshot().History, formatOf(ctx))
	s.writeImage(ctx, img, err)
}

func (s *Server) handleResetButton(ctx *fasthttp.RequestCtx) {
	img, err := s.renderer.ResetButton(ctx, formatOf(ctx))
	s.writeImage(ctx, img, err)
}

func (s *Server) handleState(ctx *fasthttp.RequestCtx) {
	body, err := json.Marshal(s.session.Snapshot().State())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	noCache(ctx)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func (s *Server) writeImage(ctx *fasthttp.RequestCtx, img svcchess.Image, err error) {
	if err != nil {
		s.fail(ctx, err)
		return
	}
	noCache(ctx)
	ctx.SetContentType(img.ContentType)
	ctx.SetBody(img.Data)
}

func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		ctx.Error("request cancelled", fasthttp.StatusServiceUnavailable)
		return
	}
	id, _ := ctx.UserValue(headerRequestID).(string)
	s.logger.Error("render failed", zap.String("request_id", id), zap.Error(err))
	ctx.Error("internal error", fasthttp.StatusInternalServerError)
}

func formatOf(ctx *fasthttp.RequestCtx) svcchess.Format {
	return svcchess.ParseFormat(string(ctx.QueryArgs().Peek("format")))
}

func noCache(ctx *fasthttp.RequestCtx) {
	h := &ctx.Response.Header
	h.Set(fasthttp.HeaderCacheControl, "no-cache,no-store,must-revalidate")
	h.Set(fasthttp.HeaderExpires, "0")
	h.Set(fasthttp.HeaderPragma, "no-cache")
}
