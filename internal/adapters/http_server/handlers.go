package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"real_estate/internal/app"
	"real_estate/internal/domain"
)

type Handlers struct {
	Reporting  *app.ReportingService
	Moderation *app.ModerationService
	Accounts   *app.AccountService
	Properties *app.PropertyService
	Reviews    *app.ReviewService
	Sell       *app.SellService
	Auth       *Auth

	// PublicLimiter throttles the unauthenticated write routes; nil disables it.
	PublicLimiter *IPRateLimiter
	ExposeErrors  bool
}

func (s *Server) MountHandlers(h *Handlers) {
	health := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) }
	s.mux.Get("/healthz", health)

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/healthz", health)

		r.Group(func(r chi.Router) {
			if h.PublicLimiter != nil {
				r.Use(h.PublicLimiter.Middleware)
			}
			r.Post("/sell", h.submitSell)
			r.With(h.Auth.RequireUser).Post("/properties/{id}/reviews", h.submitReview)
		})

		r.Get("/properties", h.listProperties)
		r.Get("/properties/search", h.searchProperties)
		r.Get("/properties/{id}", h.getProperty)

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(h.Auth.RequireUser, h.Auth.RequireAdmin)
			r.Get("/stats", h.dashboard)
			r.Get("/properties/stats", h.propertyStats)
			r.Get("/blogs/stats", h.blogStats)
			r.Get("/users/stats", h.userStats)
			r.Get("/content/stats", h.contentStats)
			r.Get("/revenue/stats", h.revenueStats)
			r.Get("/top-performers", h.topPerformers)
			r.Get("/listings", h.listings)
			r.Get("/activity", h.activity)

			r.Get("/users", h.listUsers)
			r.Get("/users/{id}", h.userDetails)

			r.Get("/comments", h.listComments)
			r.Get("/comments/stats", h.commentCounts)
			r.Patch("/comments/{id}/status", h.moderateComment)
			r.Get("/reviews", h.listReviews)
			r.Get("/reviews/stats", h.reviewCounts)
			r.Patch("/reviews/{id}/status", h.moderateReview)

			r.Get("/staff", h.listStaff)
			r.Post("/staff", h.createStaff)
			r.Get("/staff/{id}", h.getStaff)
			r.Patch("/staff/{id}", h.updateStaff)
			r.Delete("/staff/{id}", h.deleteStaff)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.Auth.RequireUser, h.Auth.RequireAdmin)
			r.Post("/properties", h.createProperty)
			r.Patch("/properties/{id}", h.updateProperty)
			r.Patch("/properties/{id}/status", h.updatePropertyStatus)
			r.Delete("/properties/{id}", h.deleteProperty)
			r.Get("/sell/stats", h.sellStats)
			r.Get("/sell/submissions", h.listSubmissions)
			r.Patch("/sell/submissions/{id}/status", h.updateOfferStatus)
		})
	})
}

// ---- query parsing ----

type params struct {
	r      *http.Request
	fields map[string]string
}

func queryParams(r *http.Request) *params { return &params{r: r, fields: map[string]string{}} }

func (p *params) str(name string) string { return p.r.URL.Query().Get(name) }

func (p *params) integer(name string) *int {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fields[name] = "must be an integer"
		return nil
	}
	return &v
}

func (p *params) number(name string) *float64 {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fields[name] = "must be a number"
		return nil
	}
	return &v
}

// list splits a comma-separated parameter, dropping blanks.
func (p *params) list(name string) []string {
	var out []string
	for _, v := range strings.Split(p.str(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (p *params) integers(name string) []int {
	var out []int
	for _, raw := range p.list(name) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			p.fields[name] = "must be a comma-separated list of integers"
			return nil
		}
		out = append(out, v)
	}
	return out
}

// page reads page/limit; zero values are defaulted by the services.
func (p *params) page() domain.Page {
	var out domain.Page
	if v := p.integer("page"); v != nil {
		out.Page = *v
	}
	if v := p.integer("limit"); v != nil {
		out.Limit = *v
	}
	return out
}

func (p *params) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Message: "invalid query parameters", Fields: p.fields}
}

// ---- dashboard statistics ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.DashboardFor(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Failed to fetch dashboard statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) propertyStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.PropertyStats(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch property statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) blogStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.BlogStats(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch blog statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) userStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.UserStats(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch user statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) contentStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.ContentStats(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch content statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) revenueStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.RevenueStats(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Failed to fetch revenue statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) topPerformers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reporting.TopPerformers(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch top performers", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) listings(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	q := domain.ListingsQuery{
		Page:      p.page(),
		Type:      p.str("type"),
		Status:    p.str("status"),
		Condition: p.str("condition"),
		City:      p.str("city"),
		State:     p.str("state"),
		ZipCode:   p.str("zipCode"),
		Bedrooms:  p.integer("bedrooms"),
		Bathrooms: p.number("bathrooms"),
		MinPrice:  p.number("minPrice"),
		MaxPrice:  p.number("maxPrice"),
	}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid listing filters", err)
		return
	}
	out, err := h.Reporting.Listings(r.Context(), q)
	if err != nil {
		h.fail(w, r, "Failed to fetch property listings", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) activity(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	limit := 0
	if v := p.integer("limit"); v != nil {
		limit = *v
	}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid activity limit", err)
		return
	}
	out, err := h.Reporting.RecentActivity(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "Failed to fetch recent activity", err)
		return
	}
	send(w, r, out)
}

// ---- users & staff ----

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	q := domain.UsersQuery{Page: p.page(), Search: p.str("search"), SortBy: p.str("sortBy"), SortOrder: p.str("sortOrder")}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid user query", err)
		return
	}
	out, err := h.Accounts.ListUsers(r.Context(), q)
	if err != nil {
		h.fail(w, r, "Failed to fetch users", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) userDetails(w http.ResponseWriter, r *http.Request) {
	out, err := h.Accounts.UserDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to fetch user details", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) listStaff(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	pg := p.page()
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid staff query", err)
		return
	}
	out, err := h.Accounts.ListStaff(r.Context(), pg)
	if err != nil {
		h.fail(w, r, "Failed to fetch staff", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) getStaff(w http.ResponseWriter, r *http.Request) {
	out, err := h.Accounts.GetStaff(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to fetch admin account", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) createStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid admin account", err)
		return
	}
	out, err := h.Accounts.CreateStaff(r.Context(), PrincipalFrom(r.Context()), req.toDomain())
	if err != nil {
		h.fail(w, r, "Failed to create admin account", err)
		return
	}
	created(w, "Admin account created successfully", out)
}

func (h *Handlers) updateStaff(w http.ResponseWriter, r *http.Request) {
	var req updateStaffRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid admin update", err)
		return
	}
	out, err := h.Accounts.UpdateStaff(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		h.fail(w, r, "Failed to update admin account", err)
		return
	}
	done(w, "Admin account updated successfully", out)
}

func (h *Handlers) deleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.DeleteStaff(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete admin account", err)
		return
	}
	done(w, "Admin account deleted successfully", nil)
}

// ---- moderation ----

type moderationResult struct {
	ID     string                  `json:"id"`
	Status domain.ModerationStatus `json:"status"`
}

func (h *Handlers) listComments(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	q := domain.CommentsQuery{Page: p.page(), Status: p.str("status"), BlogID: p.str("blogId")}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid comment query", err)
		return
	}
	out, err := h.Moderation.ListComments(r.Context(), q)
	if err != nil {
		h.fail(w, r, "Failed to fetch comments", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) commentCounts(w http.ResponseWriter, r *http.Request) {
	out, err := h.Moderation.CommentCounts(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch comment statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) moderateComment(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid status", err)
		return
	}
	id := chi.URLParam(r, "id")
	st, err := h.Moderation.UpdateCommentStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, r, "Failed to update comment status", err)
		return
	}
	done(w, "Comment "+string(st)+" successfully", moderationResult{ID: id, Status: st})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	q := domain.ReviewsQuery{Page: p.page(), Status: p.str("status"), PropertyID: p.str("propertyId")}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid review query", err)
		return
	}
	out, err := h.Moderation.ListReviews(r.Context(), q)
	if err != nil {
		h.fail(w, r, "Failed to fetch reviews", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) reviewCounts(w http.ResponseWriter, r *http.Request) {
	out, err := h.Moderation.ReviewCounts(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch review statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) moderateReview(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid status", err)
		return
	}
	id := chi.URLParam(r, "id")
	st, err := h.Moderation.UpdateReviewStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, r, "Failed to update review status", err)
		return
	}
	done(w, "Review "+string(st)+" successfully", moderationResult{ID: id, Status: st})
}

// ---- properties & reviews ----

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid property", err)
		return
	}
	out, err := h.Properties.Create(r.Context(), req.toDomain())
	if err != nil {
		h.fail(w, r, "Failed to create property", err)
		return
	}
	created(w, "Property created successfully", out)
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	var req updatePropertyRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid property", err)
		return
	}
	out, err := h.Properties.Update(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		h.fail(w, r, "Failed to update property", err)
		return
	}
	done(w, "Property updated successfully", out)
}

func (h *Handlers) updatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid status", err)
		return
	}
	out, err := h.Properties.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.fail(w, r, "Failed to update property status", err)
		return
	}
	done(w, "Property status updated successfully", out)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.Properties.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete property", err)
		return
	}
	done(w, "Property deleted successfully", nil)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid review", err)
		return
	}
	in := domain.NewReview{
		PropertyID:      chi.URLParam(r, "id"),
		Name:            req.Name,
		Content:         req.Content,
		LocationRating:  req.LocationRating,
		ConditionRating: req.ConditionRating,
		ValueRating:     req.ValueRating,
		AmenitiesRating: req.AmenitiesRating,
	}
	out, err := h.Reviews.Submit(r.Context(), UserID(r.Context()), in)
	if err != nil {
		h.fail(w, r, "Failed to submit review", err)
		return
	}
	created(w, "Review submitted and awaiting moderation", out)
}

// ---- selling to us ----

func (h *Handlers) submitSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid property submission", err)
		return
	}
	out, err := h.Sell.Submit(r.Context(), req.toDomain())
	if err != nil {
		h.fail(w, r, "Failed to submit property", err)
		return
	}
	created(w, "Property submission received", out)
}

func (h *Handlers) sellStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Sell.Stats(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch submission statistics", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) listSubmissions(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	q := domain.SellQuery{Page: p.page(), Status: p.str("status")}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid submission query", err)
		return
	}
	out, err := h.Sell.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, "Failed to fetch submissions", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) updateOfferStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, "Invalid status", err)
		return
	}
	id := chi.URLParam(r, "id")
	st, err := h.Sell.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, r, "Failed to update offer status", err)
		return
	}
	done(w, "Offer status updated successfully", map[string]any{"id": id, "offerStatus": st})
}

// ---- public catalog ----

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	q := domain.ListingsQuery{
		Page:         p.page(),
		Types:        p.list("type"),
		Status:       p.str("status"),
		Condition:    p.str("condition"),
		City:         p.str("city"),
		State:        p.str("state"),
		ZipCode:      p.str("zipCode"),
		BedroomsIn:   p.integers("bedrooms"),
		Bathrooms:    p.number("bathrooms"),
		MinBedrooms:  p.integer("minBedrooms"),
		MinBathrooms: p.number("minBathrooms"),
		MinSqft:      p.integer("minSqft"),
		MinPrice:     p.number("minPrice"),
		MaxPrice:     p.number("maxPrice"),
		Search:       p.str("query"),
	}
	if err := p.err(); err != nil {
		h.fail(w, r, "Invalid property filters", err)
		return
	}
	out, err := h.Properties.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, "Failed to retrieve properties", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	out, err := h.Properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to retrieve property", err)
		return
	}
	send(w, r, out)
}

func (h *Handlers) searchProperties(w http.ResponseWriter, r *http.Request) {
	out, err := h.Properties.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.fail(w, r, "Search failed", err)
		return
	}
	send(w, r, out)
}
