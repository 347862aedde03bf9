package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
)

type employeeDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Image       string             `bson:"image"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Mobile      string             `bson:"mobile"`
	Designation string             `bson:"designation"`
	Gender      string             `bson:"gender"`
	Course      []string           `bson:"course"`
	Status      string             `bson:"status"`
	CreateDate  time.Time          `bson:"createDate"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *employeeDocument) toEntity() *entity.Employee {
	course := d.Course
	if course == nil {
		course = []string{}
	}
	return &entity.Employee{
		ID:          d.ID.Hex(),
		Image:       d.Image,
		Name:        d.Name,
		Email:       d.Email,
		Mobile:      d.Mobile,
		Designation: d.Designation,
		Gender:      d.Gender,
		Course:      course,
		Status:      entity.EmployeeStatus(d.Status),
		CreateDate:  d.CreateDate,
		UpdatedAt:   d.UpdatedAt,
	}
}

type EmployeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{coll: db.Collection(employeesCollection)}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	now := time.Now().UTC()
	course := e.Course
	if course == nil {
		course = []string{}
	}
	doc := employeeDocument{
		ID:          primitive.NewObjectID(),
		Image:       e.Image,
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      course,
		Status:      string(e.Status),
		CreateDate:  now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	e.ID = doc.ID.Hex()
	e.CreateDate = now
	e.UpdatedAt = now
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc employeeDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toEntity(), nil
}

func (r *EmployeeRepository) List(ctx context.Context, page repository.PageRequest) ([]entity.Employee, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createDate", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make([]entity.Employee, 0, page.Limit)
	for cur.Next(ctx) {
		var doc employeeDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		out = append(out, *doc.toEntity())
	}
	return out, total, cur.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch repository.EmployeePatch) (*entity.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := updateSet(patch, time.Now().UTC())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc employeeDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toEntity(), nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*entity.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc employeeDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toEntity(), nil
}

// updateSet is the $set document for patch; updatedAt is always refreshed.
func updateSet(patch repository.EmployeePatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Mobile != nil {
		set["mobile"] = *patch.Mobile
	}
	if patch.Designation != nil {
		set["designation"] = *patch.Designation
	}
	if patch.Gender != nil {
		set["gender"] = *patch.Gender
	}
	if patch.Course != nil {
		set["course"] = patch.Course
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	return set
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)
