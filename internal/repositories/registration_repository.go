package repositories

import (
	"context"
	"fmt"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationRepository struct {
	DB *pgxpool.Pool
}

func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

func (r *RegistrationRepository) Create(ctx context.Context, companyID int) (*models.RegistrationProgress, error) {
	row := r.DB.QueryRow(ctx,
		`INSERT INTO registration_progress(company_id, current_step)
         VALUES($1, 1)
         RETURNING id, company_id, current_step, step_company_info, step_business_details,
         step_documents, step_plan_selection, step_review, completed, created_at`,
		companyID)
	return scanProgress(row)
}

func (r *RegistrationRepository) GetByCompany(ctx context.Context, companyID int) (*models.RegistrationProgress, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_id, current_step, step_company_info, step_business_details,
		 step_documents, step_plan_selection, step_review, completed, created_at
         FROM registration_progress WHERE company_id=$1`, companyID)
	return scanProgress(row)
}

func scanProgress(row interface{ Scan(...interface{}) error }) (*models.RegistrationProgress, error) {
	var p models.RegistrationProgress
	err := row.Scan(&p.ID, &p.CompanyID, &p.CurrentStep, &p.StepCompanyInfo, &p.StepBusinessDetails,
		&p.StepDocuments, &p.StepPlanSelection, &p.StepReview, &p.Completed, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// stepColumns maps wizard step numbers to their progress flags
var stepColumns = map[int]string{
	1: "step_company_info",
	2: "step_business_details",
	3: "step_documents",
	4: "step_plan_selection",
	5: "step_review",
}

// CompleteStep marks a wizard step done and advances the pointer.
// current_step only moves forward; redoing an earlier step never
// rewinds progress.
func (r *RegistrationRepository) CompleteStep(ctx context.Context, companyID, step int) error {
	col, ok := stepColumns[step]
	if !ok {
		return fmt.Errorf("unknown registration step %d", step)
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE registration_progress
		 SET `+col+`=true, current_step=GREATEST(current_step, $1)
		 WHERE company_id=$2`,
		step+1, companyID)
	return err
}

// MarkCompleted finishes the wizard after final submission
func (r *RegistrationRepository) MarkCompleted(ctx context.Context, companyID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE registration_progress SET completed=true, step_review=true WHERE company_id=$1`,
		companyID)
	return err
}
