// api/schemas/repair.go
package schemas

// RepairOutcome is the per-file record emitted by a repair run and aggregated
// by the batch reporter. It is purely observational and feeds no decision
// logic back into the repair loop.
type RepairOutcome struct {
	File     string `json:"file"`     // Base name of the program under repair.
	Success  bool   `json:"success"`  // Whether the test suite passed after repair.
	Attempts int    `json:"attempts"` // Generate/Apply/Validate cycles consumed.
}
