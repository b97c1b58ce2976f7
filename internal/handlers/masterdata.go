package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quicksent/db"
)

// Master data CRUD behind the data-management tab. Each entity follows the
// same pattern: list with search + pagination, create, get, partial
// update, delete with an audit record.

func (h *Handler) GetCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	companies, err := h.Store.GetCompanies(r.Context(), r.URL.Query().Get("search"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get companies", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (h *Handler) CreateCompanyHandler(w http.ResponseWriter, r *http.Request) {
	var company db.Company
	if err := readJSON(w, r, &company); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if company.Name == "" || company.NIP == "" {
		http.Error(w, "name and nip are required", http.StatusBadRequest)
		return
	}

	company.IsActive = true
	if err := h.Store.CreateCompany(r.Context(), &company); err != nil {
		http.Error(w, "Failed to create company", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "companies", company.ID, nil, db.JSONMap{"name": company.Name, "nip": company.NIP})
	writeJSON(w, http.StatusCreated, company)
}

func (h *Handler) GetCompanyHandler(w http.ResponseWriter, r *http.Request) {
	company, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) UpdateCompanyHandler(w http.ResponseWriter, r *http.Request) {
	company, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"name": company.Name, "nip": company.NIP, "isActive": company.IsActive}
	if err := readJSON(w, r, company); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateCompany(r.Context(), company); err != nil {
		http.Error(w, "Failed to update company", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "companies", company.ID, old,
		db.JSONMap{"name": company.Name, "nip": company.NIP, "isActive": company.IsActive})
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) DeleteCompanyHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "companyId")
	if err := h.Store.DeleteCompany(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete company", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "companies", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetContractorsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	activeOnly := r.URL.Query().Get("active") == "true"

	contractors, err := h.Store.GetContractors(r.Context(), r.URL.Query().Get("search"), activeOnly, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get contractors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contractors": contractors})
}

func (h *Handler) CreateContractorHandler(w http.ResponseWriter, r *http.Request) {
	var contractor db.Contractor
	if err := readJSON(w, r, &contractor); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if contractor.Name == "" || contractor.NIP == "" {
		http.Error(w, "name and nip are required", http.StatusBadRequest)
		return
	}

	contractor.IsActive = true
	if err := h.Store.CreateContractor(r.Context(), &contractor); err != nil {
		http.Error(w, "Failed to create contractor", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "contractors", contractor.ID, nil, db.JSONMap{"name": contractor.Name, "nip": contractor.NIP})
	writeJSON(w, http.StatusCreated, contractor)
}

func (h *Handler) GetContractorHandler(w http.ResponseWriter, r *http.Request) {
	contractor, err := h.Store.GetContractor(r.Context(), chi.URLParam(r, "contractorId"))
	if err != nil {
		http.Error(w, "Contractor not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, contractor)
}

func (h *Handler) UpdateContractorHandler(w http.ResponseWriter, r *http.Request) {
	contractor, err := h.Store.GetContractor(r.Context(), chi.URLParam(r, "contractorId"))
	if err != nil {
		http.Error(w, "Contractor not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"name": contractor.Name, "nip": contractor.NIP, "isActive": contractor.IsActive}
	if err := readJSON(w, r, contractor); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateContractor(r.Context(), contractor); err != nil {
		http.Error(w, "Failed to update contractor", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "contractors", contractor.ID, old,
		db.JSONMap{"name": contractor.Name, "nip": contractor.NIP, "isActive": contractor.IsActive})
	writeJSON(w, http.StatusOK, contractor)
}

func (h *Handler) DeleteContractorHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractorId")
	if err := h.Store.DeleteContractor(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete contractor", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "contractors", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetLocationsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	locations, err := h.Store.GetLocations(r.Context(), r.URL.Query().Get("search"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get locations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

func (h *Handler) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var location db.Location
	if err := readJSON(w, r, &location); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if location.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	location.IsActive = true
	if err := h.Store.CreateLocation(r.Context(), &location); err != nil {
		http.Error(w, "Failed to create location", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "locations", location.ID, nil, db.JSONMap{"name": location.Name})
	writeJSON(w, http.StatusCreated, location)
}

func (h *Handler) GetLocationHandler(w http.ResponseWriter, r *http.Request) {
	location, err := h.Store.GetLocation(r.Context(), chi.URLParam(r, "locationId"))
	if err != nil {
		http.Error(w, "Location not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

func (h *Handler) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	location, err := h.Store.GetLocation(r.Context(), chi.URLParam(r, "locationId"))
	if err != nil {
		http.Error(w, "Location not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"name": location.Name, "isActive": location.IsActive}
	if err := readJSON(w, r, location); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateLocation(r.Context(), location); err != nil {
		http.Error(w, "Failed to update location", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "locations", location.ID, old, db.JSONMap{"name": location.Name, "isActive": location.IsActive})
	writeJSON(w, http.StatusOK, location)
}

func (h *Handler) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "locationId")
	if err := h.Store.DeleteLocation(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete location", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "locations", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	q := r.URL.Query()

	products, err := h.Store.GetProducts(r.Context(), q.Get("search"), q.Get("category"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var product db.Product
	if err := readJSON(w, r, &product); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Code == "" {
		http.Error(w, "name and code are required", http.StatusBadRequest)
		return
	}

	product.IsActive = true
	if err := h.Store.CreateProduct(r.Context(), &product); err != nil {
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "products", product.ID, nil, db.JSONMap{"name": product.Name, "code": product.Code})
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Store.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Store.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"name": product.Name, "code": product.Code, "isActive": product.IsActive}
	if err := readJSON(w, r, product); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateProduct(r.Context(), product); err != nil {
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "products", product.ID, old,
		db.JSONMap{"name": product.Name, "code": product.Code, "isActive": product.IsActive})
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if err := h.Store.DeleteProduct(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "products", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	activeOnly := r.URL.Query().Get("active") == "true"

	vehicles, err := h.Store.GetVehicles(r.Context(), r.URL.Query().Get("search"), activeOnly, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get vehicles", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

func (h *Handler) CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	var vehicle db.Vehicle
	if err := readJSON(w, r, &vehicle); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if vehicle.RegistrationNumber == "" {
		http.Error(w, "registrationNumber is required", http.StatusBadRequest)
		return
	}

	vehicle.IsActive = true
	if err := h.Store.CreateVehicle(r.Context(), &vehicle); err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "vehicles", vehicle.ID, nil, db.JSONMap{"registrationNumber": vehicle.RegistrationNumber})
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *Handler) GetVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.Store.GetVehicle(r.Context(), chi.URLParam(r, "vehicleId"))
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *Handler) UpdateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.Store.GetVehicle(r.Context(), chi.URLParam(r, "vehicleId"))
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"registrationNumber": vehicle.RegistrationNumber, "isActive": vehicle.IsActive}
	if err := readJSON(w, r, vehicle); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateVehicle(r.Context(), vehicle); err != nil {
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "vehicles", vehicle.ID, old,
		db.JSONMap{"registrationNumber": vehicle.RegistrationNumber, "isActive": vehicle.IsActive})
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *Handler) DeleteVehicleHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vehicleId")
	if err := h.Store.DeleteVehicle(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "vehicles", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDriversHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	drivers, err := h.Store.GetDrivers(r.Context(), r.URL.Query().Get("search"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get drivers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drivers": drivers})
}

func (h *Handler) CreateDriverHandler(w http.ResponseWriter, r *http.Request) {
	var driver db.Driver
	if err := readJSON(w, r, &driver); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if driver.FirstName == "" || driver.LastName == "" || driver.LicenseNumber == "" {
		http.Error(w, "firstName, lastName and licenseNumber are required", http.StatusBadRequest)
		return
	}

	driver.IsActive = true
	if err := h.Store.CreateDriver(r.Context(), &driver); err != nil {
		http.Error(w, "Failed to create driver", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "drivers", driver.ID, nil, db.JSONMap{"licenseNumber": driver.LicenseNumber})
	writeJSON(w, http.StatusCreated, driver)
}

func (h *Handler) GetDriverHandler(w http.ResponseWriter, r *http.Request) {
	driver, err := h.Store.GetDriver(r.Context(), chi.URLParam(r, "driverId"))
	if err != nil {
		http.Error(w, "Driver not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (h *Handler) UpdateDriverHandler(w http.ResponseWriter, r *http.Request) {
	driver, err := h.Store.GetDriver(r.Context(), chi.URLParam(r, "driverId"))
	if err != nil {
		http.Error(w, "Driver not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"licenseNumber": driver.LicenseNumber, "isActive": driver.IsActive}
	if err := readJSON(w, r, driver); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateDriver(r.Context(), driver); err != nil {
		http.Error(w, "Failed to update driver", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "drivers", driver.ID, old, db.JSONMap{"licenseNumber": driver.LicenseNumber, "isActive": driver.IsActive})
	writeJSON(w, http.StatusOK, driver)
}

func (h *Handler) DeleteDriverHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "driverId")
	if err := h.Store.DeleteDriver(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete driver", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "drivers", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetTransportTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	templates, err := h.Store.GetTransportTemplates(r.Context(), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get transport templates", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *Handler) CreateTransportTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var template db.TransportTemplate
	if err := readJSON(w, r, &template); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if template.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	template.IsActive = true
	if err := h.Store.CreateTransportTemplate(r.Context(), &template); err != nil {
		http.Error(w, "Failed to create transport template", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "transport_templates", template.ID, nil, db.JSONMap{"name": template.Name})
	writeJSON(w, http.StatusCreated, template)
}

func (h *Handler) GetTransportTemplateHandler(w http.ResponseWriter, r *http.Request) {
	template, err := h.Store.GetTransportTemplate(r.Context(), chi.URLParam(r, "templateId"))
	if err != nil {
		http.Error(w, "Transport template not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *Handler) UpdateTransportTemplateHandler(w http.ResponseWriter, r *http.Request) {
	template, err := h.Store.GetTransportTemplate(r.Context(), chi.URLParam(r, "templateId"))
	if err != nil {
		http.Error(w, "Transport template not found", http.StatusNotFound)
		return
	}

	old := db.JSONMap{"name": template.Name, "isActive": template.IsActive}
	if err := readJSON(w, r, template); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateTransportTemplate(r.Context(), template); err != nil {
		http.Error(w, "Failed to update transport template", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "transport_templates", template.ID, old, db.JSONMap{"name": template.Name, "isActive": template.IsActive})
	writeJSON(w, http.StatusOK, template)
}

func (h *Handler) DeleteTransportTemplateHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "templateId")
	if err := h.Store.DeleteTransportTemplate(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete transport template", http.StatusInternalServerError)
		return
	}
	h.audit(r, "delete", "transport_templates", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}
