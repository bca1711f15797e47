package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PositionID     string `json:"position_id" binding:"required,uuid"`
	EmployeeNumber string `json:"employee_number"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date" binding:"required"`
	Status         string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type UpdateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PositionID     string `json:"position_id" binding:"required,uuid"`
	EmployeeNumber string `json:"employee_number"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date" binding:"required"`
	Status         string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	EmployeeNumber string `json:"employee_number"`
	Phone          string `json:"phone,omitempty"`
	HireDate       string `json:"hire_date"`
	Status         string `json:"status"`
	CompanyID      string `json:"company_id"`
	DepartmentID   string `json:"department_id,omitempty"`
	PositionID     string `json:"position_id,omitempty"`

	Department *EmployeeDepartmentResponse `json:"department,omitempty"`
	Position   *EmployeePositionResponse   `json:"position,omitempty"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeePositionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
