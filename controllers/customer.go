package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomerController struct {
	customers store.CustomerStore
}

func NewCustomerController(customers store.CustomerStore) *CustomerController {
	return &CustomerController{customers: customers}
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name         string   `json:"name" binding:"required"`
	Phone        string   `json:"phone" binding:"required"`
	Email        *string  `json:"email"`
	Address      string   `json:"address" binding:"required"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	PostalCode   *string  `json:"postalCode"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	CustomerType string   `json:"customerType" binding:"omitempty,oneof=residential commercial industrial"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	PostalCode   *string  `json:"postalCode"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	CustomerType *string  `json:"customerType" binding:"omitempty,oneof=residential commercial industrial"`
	Status       *string  `json:"status" binding:"omitempty,oneof=active inactive blocked"`
}

// phoneTaken reports whether another customer already owns the phone number.
func (ct *CustomerController) phoneTaken(c *gin.Context, phone string, excludeID uuid.UUID) (bool, bool) {
	existing, err := ct.customers.GetCustomerByPhone(c.Request.Context(), phone)
	if err == nil {
		return existing.ID != excludeID, true
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, true
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	return false, false
}

func (ct *CustomerController) emailTaken(c *gin.Context, email string, excludeID uuid.UUID) (bool, bool) {
	existing, err := ct.customers.GetCustomerByEmail(c.Request.Context(), email)
	if err == nil {
		return existing.ID != excludeID, true
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, true
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	return false, false
}

// CreateCustomer registers a new customer. Phone is the primary dedup key;
// email must also be unique when present.
func (ct *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if taken, ok := ct.phoneTaken(c, input.Phone, uuid.Nil); !ok {
		return
	} else if taken {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		return
	}

	email := utils.NormalizeOptional(input.Email)
	if email != nil {
		if taken, ok := ct.emailTaken(c, *email, uuid.Nil); !ok {
			return
		} else if taken {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this email already exists")
			return
		}
	}

	customerType := input.CustomerType
	if customerType == "" {
		customerType = models.CustomerTypeResidential
	}

	customer := models.Customer{
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          email,
		Address:        input.Address,
		City:           utils.NormalizeOptional(input.City),
		State:          utils.NormalizeOptional(input.State),
		PostalCode:     utils.NormalizeOptional(input.PostalCode),
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		CustomerType:   customerType,
		Status:         models.CustomerStatusActive,
	}

	// Phone and email were pre-checked, so a duplicate here is almost always
	// a customer-number collision; retry with a fresh number before giving up.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		customer.CustomerNumber = utils.GenerateCustomerNumber()
		err = ct.customers.CreateCustomer(c.Request.Context(), &customer)
		if !errors.Is(err, store.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this phone or email already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Customer created", customer)
}

func (ct *CustomerController) GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := store.CustomerFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	customers, total, err := ct.customers.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	utils.RespondPaginated(c, http.StatusOK, customers, page, limit, total)
}

func (ct *CustomerController) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	customer, err := ct.customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", customer)
}

// UpdateCustomer applies a partial update. Uniqueness is re-checked only
// when phone or email actually change.
func (ct *CustomerController) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := ct.customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil && *input.Phone != customer.Phone {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		if taken, ok := ct.phoneTaken(c, *input.Phone, customer.ID); !ok {
			return
		} else if taken {
			utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
			return
		}
		customer.Phone = *input.Phone
	}

	if input.Email != nil {
		email := utils.NormalizeOptional(input.Email)
		changed := (email == nil) != (customer.Email == nil) ||
			(email != nil && customer.Email != nil && *email != *customer.Email)
		if changed && email != nil {
			if taken, ok := ct.emailTaken(c, *email, customer.ID); !ok {
				return
			} else if taken {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this email already exists")
				return
			}
		}
		customer.Email = email
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.City != nil {
		customer.City = utils.NormalizeOptional(input.City)
	}
	if input.State != nil {
		customer.State = utils.NormalizeOptional(input.State)
	}
	if input.PostalCode != nil {
		customer.PostalCode = utils.NormalizeOptional(input.PostalCode)
	}
	if input.Latitude != nil {
		customer.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		customer.Longitude = input.Longitude
	}
	if input.CustomerType != nil {
		customer.CustomerType = *input.CustomerType
	}
	if input.Status != nil {
		customer.Status = *input.Status
	}

	if err := ct.customers.UpdateCustomer(c.Request.Context(), customer); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Customer updated", customer)
}

// DeleteCustomer hard-deletes a customer. Customers with existing orders
// cannot be removed; deactivate them instead.
func (ct *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	count, err := ct.customers.CountCustomerOrders(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Customer has existing orders, deactivate instead")
		return
	}

	if err := ct.customers.DeleteCustomer(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Customer deleted", nil)
}
