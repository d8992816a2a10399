package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerClubRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/clubs", RequireAuth(verifier, http.HandlerFunc(handler.ListClubs)))
	mux.Handle("GET /v1/clubs/{clubID}", RequireAuth(verifier, http.HandlerFunc(handler.GetClub)))
	mux.Handle("GET /v1/clubs/{clubID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /v1/clubs/{clubID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("PUT /v1/clubs/{clubID}/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("PATCH /v1/clubs/{clubID}/matches/{matchID}/status", RequireAuth(verifier, http.HandlerFunc(handler.SetMatchStatus)))
	mux.Handle("DELETE /v1/clubs/{clubID}/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("GET /v1/clubs/{clubID}/overview", RequireAuth(verifier, http.HandlerFunc(handler.GetClubOverview)))
}

func registerPostulationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/clubs/{clubID}/postulations", RequireAuth(verifier, http.HandlerFunc(handler.CreatePostulation)))
	mux.Handle("GET /v1/clubs/{clubID}/postulations", RequireAuth(verifier, http.HandlerFunc(handler.ListClubPostulations)))
	mux.Handle("GET /v1/postulations/{postulationID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPostulation)))
	mux.Handle("PUT /v1/postulations/{postulationID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePostulation)))
}

func registerAssignmentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/clubs/{clubID}/assignments", RequireAuth(verifier, http.HandlerFunc(handler.ListAssignments)))
	mux.Handle("PUT /v1/clubs/{clubID}/matches/{matchID}/assignment", RequireAuth(verifier, http.HandlerFunc(handler.AssignReferee)))
	mux.Handle("DELETE /v1/clubs/{clubID}/matches/{matchID}/assignment", RequireAuth(verifier, http.HandlerFunc(handler.UnassignReferee)))
}
