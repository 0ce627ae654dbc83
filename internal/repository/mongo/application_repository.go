package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

const CollectionName = "applications"

type applicationDocument struct {
	ID                string    `bson:"_id"`
	FullName          string    `bson:"fullName"`
	Email             string    `bson:"email"`
	WhatsappNumber    string    `bson:"whatsappNumber"`
	Branch            string    `bson:"branch"`
	Year              string    `bson:"year"`
	PrimaryRole       string    `bson:"primaryRole"`
	SecondaryRoles    []string  `bson:"secondaryRoles"`
	WhyThisRole       string    `bson:"whyThisRole"`
	PastExperience    string    `bson:"pastExperience"`
	HasOtherClubs     bool      `bson:"hasOtherClubs"`
	OtherClubsDetails string    `bson:"otherClubsDetails"`
	TimeAvailability  string    `bson:"timeAvailability"`
	Status            string    `bson:"status"`
	AdminRemarks      string    `bson:"adminRemarks"`
	Feedback          string    `bson:"feedback"`
	SubmittedAt       time.Time `bson:"submittedAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func toDocument(app application.Application) applicationDocument {
	roles := app.SecondaryRoles
	if roles == nil {
		roles = []string{}
	}
	return applicationDocument{
		ID:                app.ID.String(),
		FullName:          app.FullName,
		Email:             app.Email,
		WhatsappNumber:    app.WhatsappNumber,
		Branch:            app.Branch,
		Year:              app.Year,
		PrimaryRole:       app.PrimaryRole,
		SecondaryRoles:    roles,
		WhyThisRole:       app.WhyThisRole,
		PastExperience:    app.PastExperience,
		HasOtherClubs:     app.HasOtherClubs,
		OtherClubsDetails: app.OtherClubsDetails,
		TimeAvailability:  app.TimeAvailability,
		Status:            string(app.Status),
		AdminRemarks:      app.AdminRemarks,
		Feedback:          app.Feedback,
		SubmittedAt:       app.SubmittedAt,
		UpdatedAt:         app.UpdatedAt,
	}
}

func (d applicationDocument) toApplication() application.Application {
	return application.Application{
		ID:                common.UUID(d.ID),
		FullName:          d.FullName,
		Email:             d.Email,
		WhatsappNumber:    d.WhatsappNumber,
		Branch:            d.Branch,
		Year:              d.Year,
		PrimaryRole:       d.PrimaryRole,
		SecondaryRoles:    d.SecondaryRoles,
		WhyThisRole:       d.WhyThisRole,
		PastExperience:    d.PastExperience,
		HasOtherClubs:     d.HasOtherClubs,
		OtherClubsDetails: d.OtherClubsDetails,
		TimeAvailability:  d.TimeAvailability,
		Status:            application.Status(d.Status),
		AdminRemarks:      d.AdminRemarks,
		Feedback:          d.Feedback,
		SubmittedAt:       d.SubmittedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

type ApplicationRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewApplicationRepository(coll *mongo.Collection) *ApplicationRepository {
	return &ApplicationRepository{coll: coll, now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }}
}

// EnsureIndexes creates the unique email index and the lookup indexes.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		{Keys: bson.D{{Key: "whatsappNumber", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: -1}}},
	})
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to create indexes", err)
	}
	return nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	app.ID = common.NewUUID()
	now := r.now()
	app.SubmittedAt = now
	app.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, toDocument(app)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.NewError(common.CodeConflict, "An application with this email already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *ApplicationRepository) FindByEmail(ctx context.Context, email string) (*application.Application, error) {
	return r.findOne(ctx, bson.M{"email": application.NormalizeEmail(email)})
}

func (r *ApplicationRepository) FindByWhatsapp(ctx context.Context, number string) (*application.Application, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	return r.findOne(ctx, bson.M{"whatsappNumber": strings.TrimSpace(number)}, opts)
}

func (r *ApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": application.NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check email", err)
	}
	return count > 0, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter) ([]application.Application, int, error) {
	filter = filter.Paged()
	query := filterDocument(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))
	items, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (r *ApplicationRepository) ListAll(ctx context.Context, filter application.Filter) ([]application.Application, error) {
	return r.find(ctx, filterDocument(filter), options.Find().SetSort(newestFirst()))
}

func (r *ApplicationRepository) Update(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	app.UpdatedAt = r.now()
	doc := toDocument(app)
	set := bson.M{
		"fullName":          doc.FullName,
		"email":             doc.Email,
		"whatsappNumber":    doc.WhatsappNumber,
		"branch":            doc.Branch,
		"year":              doc.Year,
		"primaryRole":       doc.PrimaryRole,
		"secondaryRoles":    doc.SecondaryRoles,
		"whyThisRole":       doc.WhyThisRole,
		"pastExperience":    doc.PastExperience,
		"hasOtherClubs":     doc.HasOtherClubs,
		"otherClubsDetails": doc.OtherClubsDetails,
		"timeAvailability":  doc.TimeAvailability,
		"status":            doc.Status,
		"adminRemarks":      doc.AdminRemarks,
		"feedback":          doc.Feedback,
		"updatedAt":         doc.UpdatedAt,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated applicationDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.NewError(common.CodeNotFound, "Application not found", err)
		case mongo.IsDuplicateKeyError(err):
			return nil, common.NewError(common.CodeConflict, "An application with this email already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	result := updated.toApplication()
	return &result, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	if result.DeletedCount == 0 {
		return common.NewError(common.CodeNotFound, "Application not found", nil)
	}
	return nil
}

func (r *ApplicationRepository) Stats(ctx context.Context) (application.Stats, error) {
	stats := application.NewStats()
	statuses, err := r.groupCount(ctx, "status")
	if err != nil {
		return stats, err
	}
	for _, count := range statuses {
		stats.StatusStats[application.Status(count.Value)] = count.Count
		stats.Total += count.Count
	}
	if stats.RoleStats, err = r.groupCount(ctx, "primaryRole"); err != nil {
		return stats, err
	}
	if stats.DepartmentStats, err = r.groupCount(ctx, "branch"); err != nil {
		return stats, err
	}
	if stats.YearStats, err = r.groupCount(ctx, "year"); err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *ApplicationRepository) groupCount(ctx context.Context, field string) ([]application.Count, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load statistics", err)
	}
	var rows []struct {
		Value string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load statistics", err)
	}
	counts := make([]application.Count, len(rows))
	for i, row := range rows {
		counts[i] = application.Count{Value: row.Value, Count: row.Count}
	}
	return counts, nil
}

func (r *ApplicationRepository) findOne(ctx context.Context, query bson.M, opts ...*options.FindOneOptions) (*application.Application, error) {
	var doc applicationDocument
	if err := r.coll.FindOne(ctx, query, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewError(common.CodeNotFound, "Application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	app := doc.toApplication()
	return &app, nil
}

func (r *ApplicationRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]application.Application, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	var docs []applicationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to decode applications", err)
	}
	items := make([]application.Application, len(docs))
	for i, doc := range docs {
		items[i] = doc.toApplication()
	}
	return items, nil
}

func newestFirst() bson.D {
	return bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}}
}

// filterDocument translates a listing filter into a query document. Free
// text is matched case-insensitively as a literal substring.
func filterDocument(filter application.Filter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	var clauses []bson.M
	if role := strings.TrimSpace(filter.Role); role != "" {
		pattern := contains(role)
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"primaryRole": pattern},
			bson.M{"secondaryRoles": pattern},
		}})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := contains(search)
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"fullName": pattern},
			bson.M{"email": pattern},
			bson.M{"whatsappNumber": pattern},
		}})
	}
	if len(clauses) > 0 {
		query["$and"] = clauses
	}
	return query
}

func contains(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}
