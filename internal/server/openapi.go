package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type boardPath struct {
	Board string `path:"board" description:"Board slug."`
}

type leaderboardQuery struct {
	Board  string `path:"board" description:"Board slug."`
	Period string `query:"period" enum:"all,week,today" default:"all"`
}

type deleteBoardParams struct {
	Board string `path:"board" description:"Board slug."`
	Key   string `header:"X-Board-Key" required:"true" description:"Admin key returned when the board was created."`
}

type healthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "geoboard API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("GeoGuessr result ingestion and board standings.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/import
	postImport, _ := r.NewOperationContext(http.MethodPost, "/api/import")
	postImport.SetSummary("Import a game")
	postImport.SetDescription("Records an extracted GeoGuessr game for a player on a board. " +
		"A game_id already recorded for the same board and player is not stored twice; " +
		"the stored totals are returned with duplicate set.")
	postImport.AddReqStructure(ImportRequest{})
	postImport.AddRespStructure(ImportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postImport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postImport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postImport)

	// GET /api/boards
	listBoards, _ := r.NewOperationContext(http.MethodGet, "/api/boards")
	listBoards.SetSummary("List boards")
	listBoards.AddRespStructure([]BoardSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listBoards)

	// POST /api/boards
	createBoard, _ := r.NewOperationContext(http.MethodPost, "/api/boards")
	createBoard.SetSummary("Create board")
	createBoard.SetDescription("Creates a board. The admin key in the response is shown only once.")
	createBoard.AddReqStructure(CreateBoardRequest{})
	createBoard.AddRespStructure(CreateBoardResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(createBoard)

	// GET /api/boards/{board}
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/boards/{board}")
	getBoard.SetSummary("Get board")
	getBoard.AddReqStructure(boardPath{})
	getBoard.AddRespStructure(BoardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBoard)

	// DELETE /api/boards/{board}
	deleteBoard, _ := r.NewOperationContext(http.MethodDelete, "/api/boards/{board}")
	deleteBoard.SetSummary("Delete board")
	deleteBoard.SetDescription("Deletes a board with all its results. Requires the X-Board-Key header.")
	deleteBoard.AddReqStructure(deleteBoardParams{})
	deleteBoard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	deleteBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	deleteBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteBoard)

	// GET /api/boards/{board}/leaderboard
	getStandings, _ := r.NewOperationContext(http.MethodGet, "/api/boards/{board}/leaderboard")
	getStandings.SetSummary("Board standings")
	getStandings.SetDescription("Ranks players by total score. Weeks start on Monday 00:00 UTC.")
	getStandings.AddReqStructure(leaderboardQuery{})
	getStandings.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getStandings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getStandings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStandings)

	// POST /api/boards/{board}/entries
	postEntry, _ := r.NewOperationContext(http.MethodPost, "/api/boards/{board}/entries")
	postEntry.SetSummary("Add manual entry")
	postEntry.SetDescription("Records hand-entered round scores for the signed-in player. Once per board per UTC day.")
	postEntry.AddReqStructure(struct {
		boardPath
		EntryRequest
	}{})
	postEntry.AddRespStructure(EntryResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postEntry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postEntry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postEntry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postEntry)

	// GET /api/boards/{board}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/boards/{board}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of result_recorded events for the board.")
	getEvents.AddReqStructure(boardPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/boards/{board}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/boards/{board}/ws")
	getWS.SetSummary("WebSocket event feed")
	getWS.SetDescription("Upgrades to a WebSocket connection carrying the same events as the SSE stream.")
	getWS.AddReqStructure(boardPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/players/register
	register, _ := r.NewOperationContext(http.MethodPost, "/api/players/register")
	register.SetSummary("Register player")
	register.SetDescription("Creates or updates a player by email, then by name. Sets the player_session cookie.")
	register.AddReqStructure(RegisterRequest{})
	register.AddRespStructure(PlayerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(register)

	// POST /api/players/login
	login, _ := r.NewOperationContext(http.MethodPost, "/api/players/login")
	login.SetSummary("Player login")
	login.SetDescription("Signs in by email. Sets the player_session cookie.")
	login.AddReqStructure(LoginRequest{})
	login.AddRespStructure(PlayerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	login.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(login)

	// POST /api/players/logout
	logout, _ := r.NewOperationContext(http.MethodPost, "/api/players/logout")
	logout.SetSummary("Player logout")
	logout.SetDescription("Clears the session and cookie.")
	logout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(logout)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current player")
	getMe.AddRespStructure(PlayerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.HandlerFunc {
	return v5emb.New("geoboard API", "/openapi.json", "/docs").ServeHTTP
}
