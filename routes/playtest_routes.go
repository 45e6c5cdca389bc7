package routes

import (
	"net/http"

	"playtest_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPlaytestRoutes sets up routes for playtest assignment under /api/playtests
func RegisterPlaytestRoutes(r *mux.Router, controller *controllers.PlaytestController) {
	playtestRouter := r.PathPrefix("/api/playtests").Subrouter()
	playtestRouter.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowedHandler)

	playtestRouter.HandleFunc("/simulate", controller.Simulate).Methods("POST")
	playtestRouter.HandleFunc("/duplicates", controller.Duplicates).Methods("GET")
	playtestRouter.HandleFunc("/tickets/count", controller.TicketCount).Methods("GET")
	playtestRouter.HandleFunc("/reports/url", controller.ReportURL).Methods("POST")
}
