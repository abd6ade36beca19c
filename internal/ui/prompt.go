package ui

import (
	"context"
	"fmt"

	"pet-health-console/internal/api"
	"pet-health-console/internal/state"
)

// prompt es la descripción visual de una acción pendiente de confirmación.
// askWeight habilita un input de peso opcional (completar medicación o
// desparasitación registra el peso del día si se carga).
type prompt struct {
	title        string
	message      string
	confirmLabel string
	destructive  bool
	askWeight    bool
}

// promptFor resuelve la acción a su prompt. El type switch es exhaustivo
// sobre los kinds de state; un kind nuevo sin rama cae al default genérico.
func promptFor(a state.Action) prompt {
	switch v := a.(type) {
	case state.DeletePet:
		return prompt{
			title:        "Delete pet",
			message:      fmt.Sprintf("Delete %s and all of its records? This cannot be undone.", v.Pet.Name),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.DeleteVaccine:
		return prompt{
			title:        "Delete vaccine",
			message:      fmt.Sprintf("Delete vaccine %q?", v.Vaccine.Name),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.CompleteVaccine:
		return prompt{
			title:        "Complete vaccine",
			message:      fmt.Sprintf("Mark vaccine %q as applied?", v.Vaccine.Name),
			confirmLabel: "Complete",
		}
	case state.DeleteMedication:
		return prompt{
			title:        "Delete medication",
			message:      fmt.Sprintf("Delete medication %q?", v.Medication.Name),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.CompleteMedication:
		return prompt{
			title:        "Complete medication",
			message:      fmt.Sprintf("Mark medication %q as completed?", v.Medication.Name),
			confirmLabel: "Complete",
			askWeight:    true,
		}
	case state.DeleteDeworming:
		return prompt{
			title:        "Delete deworming",
			message:      fmt.Sprintf("Delete deworming %q?", v.Deworming.Product),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.CompleteDeworming:
		return prompt{
			title:        "Complete deworming",
			message:      fmt.Sprintf("Mark deworming %q as completed?", v.Deworming.Product),
			confirmLabel: "Complete",
			askWeight:    true,
		}
	case state.DeleteReview:
		return prompt{
			title:        "Delete medical visit",
			message:      fmt.Sprintf("Delete the visit from %s?", v.Review.VisitDate),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.DeleteWeight:
		return prompt{
			title:        "Delete weight record",
			message:      fmt.Sprintf("Delete the weight record from %s?", v.Weight.MeasurementDate),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.DeleteDocument:
		return prompt{
			title:        "Delete document",
			message:      fmt.Sprintf("Delete document %q and its files?", v.Document.DocumentName),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.DeleteDocumentFile:
		return prompt{
			title:        "Delete file",
			message:      fmt.Sprintf("Delete file %q from %q?", v.File.DisplayName, v.Document.DocumentName),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.DeleteUser:
		return prompt{
			title:        "Delete user",
			message:      fmt.Sprintf("Delete user %q?", v.User.Username),
			confirmLabel: "Delete",
			destructive:  true,
		}
	case state.Logout:
		return prompt{
			title:        "Log out",
			message:      "End the current session?",
			confirmLabel: "Log out",
		}
	default:
		return prompt{title: "Confirm", message: "Are you sure?", confirmLabel: "OK"}
	}
}

// outcome es el resultado de ejecutar una acción confirmada.
type outcome struct {
	success string // mensaje para el toast
	refetch bool   // recargar el portfolio
	users   bool   // recargar la lista de usuarios
	logout  bool
}

// dispatch ejecuta la acción confirmada contra el backend. weightKg solo se
// usa en los completes de medicación/desparasitación (0 = no registrar peso).
func dispatch(ctx context.Context, client *api.Client, a state.Action, weightKg float64) (outcome, error) {
	switch v := a.(type) {
	case state.DeletePet:
		if err := client.DeletePet(ctx, v.Pet.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "pet deleted", refetch: true}, nil
	case state.DeleteVaccine:
		if err := client.DeleteVaccine(ctx, v.Vaccine.PetID, v.Vaccine.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "vaccine deleted", refetch: true}, nil
	case state.CompleteVaccine:
		if err := client.CompleteVaccine(ctx, v.Vaccine.PetID, v.Vaccine.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "vaccine marked as applied", refetch: true}, nil
	case state.DeleteMedication:
		if err := client.DeleteMedication(ctx, v.Medication.PetID, v.Medication.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "medication deleted", refetch: true}, nil
	case state.CompleteMedication:
		opts := api.CompleteOptions{WeightKg: weightKg}
		if err := client.CompleteMedication(ctx, v.Medication.PetID, v.Medication.ID, opts); err != nil {
			return outcome{}, err
		}
		return outcome{success: "medication completed", refetch: true}, nil
	case state.DeleteDeworming:
		if err := client.DeleteDeworming(ctx, v.Deworming.PetID, v.Deworming.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "deworming deleted", refetch: true}, nil
	case state.CompleteDeworming:
		opts := api.CompleteOptions{WeightKg: weightKg}
		if err := client.CompleteDeworming(ctx, v.Deworming.PetID, v.Deworming.ID, opts); err != nil {
			return outcome{}, err
		}
		return outcome{success: "deworming completed", refetch: true}, nil
	case state.DeleteReview:
		if err := client.DeleteReview(ctx, v.Review.PetID, v.Review.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "medical visit deleted", refetch: true}, nil
	case state.DeleteWeight:
		if err := client.DeleteWeight(ctx, v.Weight.PetID, v.Weight.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "weight record deleted", refetch: true}, nil
	case state.DeleteDocument:
		if err := client.DeleteDocument(ctx, v.Document.PetID, v.Document.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "document deleted", refetch: true}, nil
	case state.DeleteDocumentFile:
		if err := client.DeleteDocumentFile(ctx, v.Document.PetID, v.Document.ID, v.File.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "file deleted", refetch: true}, nil
	case state.DeleteUser:
		if err := client.DeleteUser(ctx, v.User.ID); err != nil {
			return outcome{}, err
		}
		return outcome{success: "user deleted", users: true}, nil
	case state.Logout:
		return outcome{logout: true}, nil
	}
	return outcome{}, fmt.Errorf("unhandled action %T", a)
}
