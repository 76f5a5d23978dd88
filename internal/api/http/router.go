package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"proprental-backend/internal/service"
)

// NewRouter wires all REST endpoints under /api/v1
func NewRouter(
	agreements service.AgreementService,
	contractors service.ContractorService,
	buildings service.BuildingService,
) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	agreementHandler := NewAgreementHandler(agreements)
	api.HandleFunc("/agreements", agreementHandler.Create).Methods("POST")
	api.HandleFunc("/agreements", agreementHandler.List).Methods("GET")
	api.HandleFunc("/agreements/{id}", agreementHandler.Get).Methods("GET")
	api.HandleFunc("/agreements/{id}", agreementHandler.Delete).Methods("DELETE")
	api.HandleFunc("/agreements/{id}/items", agreementHandler.AddRentedItem).Methods("POST")
	api.HandleFunc("/agreements/{id}/items/{roomID}", agreementHandler.ExtendRentedItem).Methods("PUT")
	api.HandleFunc("/agreements/{id}/items/{roomID}", agreementHandler.RemoveRentedItem).Methods("DELETE")
	api.HandleFunc("/agreements/{id}/sign", agreementHandler.Sign).Methods("POST")
	api.HandleFunc("/agreements/{id}/cancel", agreementHandler.Cancel).Methods("POST")
	api.HandleFunc("/agreements/{id}/complete", agreementHandler.Complete).Methods("POST")
	api.HandleFunc("/agreements/{id}/extend", agreementHandler.Extend).Methods("POST")
	api.HandleFunc("/agreements/{id}/prolong", agreementHandler.Prolong).Methods("POST")
	api.HandleFunc("/agreements/{id}/rent", agreementHandler.MonthlyRent).Methods("GET")
	api.HandleFunc("/agreements/{id}/penalty", agreementHandler.Penalty).Methods("GET")

	contractorHandler := NewContractorHandler(contractors)
	api.HandleFunc("/contractors/individuals", contractorHandler.CreateIndividual).Methods("POST")
	api.HandleFunc("/contractors/legal-entities", contractorHandler.CreateLegalEntity).Methods("POST")
	api.HandleFunc("/contractors", contractorHandler.List).Methods("GET")
	api.HandleFunc("/contractors/{id}", contractorHandler.Get).Methods("GET")
	api.HandleFunc("/contractors/{id}/agreements", contractorHandler.Agreements).Methods("GET")
	api.HandleFunc("/contractors/{id}/can-sign", contractorHandler.CanSign).Methods("GET")
	api.HandleFunc("/contractors/{id}/phone", contractorHandler.ChangePhone).Methods("PUT")
	api.HandleFunc("/contractors/{id}/deactivate", contractorHandler.Deactivate).Methods("POST")
	api.HandleFunc("/contractors/{id}/activate", contractorHandler.Activate).Methods("POST")

	buildingHandler := NewBuildingHandler(buildings)
	api.HandleFunc("/buildings", buildingHandler.Create).Methods("POST")
	api.HandleFunc("/buildings", buildingHandler.List).Methods("GET")
	api.HandleFunc("/buildings/{id}", buildingHandler.Get).Methods("GET")
	api.HandleFunc("/buildings/{id}/rooms", buildingHandler.AddRoom).Methods("POST")
	api.HandleFunc("/buildings/{id}/rooms/available", buildingHandler.AvailableRooms).Methods("GET")
	api.HandleFunc("/buildings/{id}/rooms/{roomID}", buildingHandler.RemoveRoom).Methods("DELETE")
	api.HandleFunc("/rooms/{roomID}", buildingHandler.GetRoom).Methods("GET")
	api.HandleFunc("/rooms/{roomID}/finishing", buildingHandler.SetRoomFinishing).Methods("PUT")
	api.HandleFunc("/rooms/{roomID}/phone", buildingHandler.InstallRoomPhone).Methods("POST")
	api.HandleFunc("/rooms/{roomID}/phone", buildingHandler.RemoveRoomPhone).Methods("DELETE")

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	return router
}
