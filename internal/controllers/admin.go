package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/gocarina/gocsv"

	"github.com/drstein77/storefront/internal/analytics"
	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/payroll"
	"github.com/drstein77/storefront/internal/validation"
)

func (h *BaseController) adminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *BaseController) createProduct(w http.ResponseWriter, r *http.Request) {
	var form catalog.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	p, err := form.Product()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err = h.storage.AddProduct(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Product added successfully!", models.ToastSuccess)
	writeJSON(w, http.StatusCreated, p)
}

// updateProduct applies the form to the stored product; id and reviews are
// kept, and so is stock when the form leaves it out.
func (h *BaseController) updateProduct(w http.ResponseWriter, r *http.Request) {
	var form catalog.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	cur, err := h.storage.ProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if form.Stock == nil {
		form.Stock = cur.Stock
	}
	p, err := form.Product()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p.ID, p.Reviews = cur.ID, cur.Reviews

	p, err = h.storage.UpdateProduct(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Product updated successfully!", models.ToastSuccess)
	writeJSON(w, http.StatusOK, p)
}

func (h *BaseController) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.storage.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.carts.Forget(id)
	h.toasts.Show(session(r).ID, "Product deleted successfully!", models.ToastSuccess)
	w.WriteHeader(http.StatusNoContent)
}

// importProducts upserts the products of an uploaded CSV.
func (h *BaseController) importProducts(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var rows []models.Product
	if err := gocsv.Unmarshal(r.Body, &rows); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse products: %v", err))
		return
	}

	errs := validation.FieldErrors{}
	for i, p := range rows {
		line := "row " + strconv.Itoa(i+2)
		switch {
		case validation.Blank(p.Name):
			errs[line] = "name is required"
		case !p.Category.Valid():
			errs[line] = fmt.Sprintf("unknown category %q", p.Category)
		case p.Price <= 0:
			errs[line] = "price must be positive"
		case p.Stock < 0:
			errs[line] = "stock must be zero or more"
		}
	}
	if err := errs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.storage.ImportProducts(r.Context(), rows)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// exportProducts writes the catalog as CSV; the archive middleware zips it
// for clients that ask.
func (h *BaseController) exportProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(products, &buf); err != nil {
		h.writeError(w, r, fmt.Errorf("marshal products csv: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type inventoryRow struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Category models.Category     `json:"category"`
	Stock    int                 `json:"stock"`
	Status   catalog.StockStatus `json:"status"`
}

func (h *BaseController) getInventory(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows := make([]inventoryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, inventoryRow{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Stock:    p.Stock,
			Status:   catalog.StatusOf(p.Stock),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *BaseController) updateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stock int `json:"stock"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	if req.Stock < 0 {
		h.writeError(w, r, validation.FieldErrors{"stock": "Stock must be zero or more."})
		return
	}
	p, err := h.storage.UpdateStock(r.Context(), chi.URLParam(r, "id"), req.Stock)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, fmt.Sprintf("%s stock updated to %d.", p.Name, p.Stock), models.ToastSuccess)
	writeJSON(w, http.StatusOK, p)
}

func (h *BaseController) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.storage.Employees(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *BaseController) createEmployee(w http.ResponseWriter, r *http.Request) {
	var form payroll.EmployeeForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	e, err := form.Employee()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err = h.storage.AddEmployee(r.Context(), e)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Employee added successfully!", models.ToastSuccess)
	writeJSON(w, http.StatusCreated, e)
}

func (h *BaseController) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var form payroll.EmployeeForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	e, err := form.Employee()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	e.ID = chi.URLParam(r, "id")
	e, err = h.storage.UpdateEmployee(r.Context(), e)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Employee updated successfully!", models.ToastSuccess)
	writeJSON(w, http.StatusOK, e)
}

func (h *BaseController) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Employee record deleted.", models.ToastSuccess)
	w.WriteHeader(http.StatusNoContent)
}

// dateParam parses a YYYY-MM-DD query parameter, falling back to def.
func dateParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, validation.FieldErrors{name: "Date must be YYYY-MM-DD."}
	}
	return t, nil
}

func (h *BaseController) getAttendance(w http.ResponseWriter, r *http.Request) {
	day, err := dateParam(r, "date", h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, err := h.storage.AttendanceForDate(r.Context(), day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *BaseController) postAttendance(w http.ResponseWriter, r *http.Request) {
	var form payroll.AttendanceForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	if form.Date == "" {
		form.Date = h.now().UTC().Format(time.DateOnly)
	}
	rec, err := form.Record()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err = h.storage.AddAttendance(r.Context(), rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Attendance record added successfully.", models.ToastSuccess)
	writeJSON(w, http.StatusCreated, rec)
}

type payrollReport struct {
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Lines    []payroll.Line `json:"lines"`
	TotalPay float64        `json:"totalPay"`
}

func (h *BaseController) getPayroll(w http.ResponseWriter, r *http.Request) {
	def := payroll.LastWeek(h.now())
	start, err := dateParam(r, "start", def.Start)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	end, err := dateParam(r, "end", def.End)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	period := payroll.NewPeriod(start, end)

	employees, err := h.storage.Employees(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	records, err := h.storage.AttendanceRecords(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lines := payroll.Report(employees, records, period)

	if r.URL.Query().Get("format") == "csv" {
		var buf bytes.Buffer
		if err := payroll.WriteCSV(&buf, lines); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll_%s_to_%s.csv"`,
			period.Start.Format(time.DateOnly), period.End.Format(time.DateOnly)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	report := payrollReport{
		Start: period.Start.Format(time.DateOnly),
		End:   period.End.Format(time.DateOnly),
		Lines: lines,
	}
	for _, l := range lines {
		report.TotalPay += l.TotalPay
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *BaseController) getAnalytics(w http.ResponseWriter, r *http.Request) {
	mode, err := analytics.ParseViewMode(r.URL.Query().Get("view"))
	if err != nil {
		h.writeError(w, r, validation.FieldErrors{"view": "View must be daily, monthly or yearly."})
		return
	}
	orders, err := h.storage.Orders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(orders, mode))
}
