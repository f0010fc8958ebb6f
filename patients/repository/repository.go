package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wardbook/records/patients"
	"github.com/wardbook/records/store"
)

func NewRepository(connector *store.Connector, logger *zap.SugaredLogger) (patients.Repository, error) {
	repo := &Repository{
		connector: connector,
		logger:    logger,
	}
	connector.RegisterInitializer(repo.Initialize)

	return repo, nil
}

type Repository struct {
	connector *store.Connector
	logger    *zap.SugaredLogger
}

func (r *Repository) Initialize(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(patients.CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "patient_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniquePatientId"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "basic_details.ward", Value: 1},
			},
			Options: options.Index().
				SetName("PatientsByWard"),
		},
	})
	return err
}

func (r *Repository) collection(ctx context.Context) (*mongo.Collection, error) {
	return r.connector.Collection(ctx, patients.CollectionName)
}

func (r *Repository) Get(ctx context.Context, patientId string) (*patients.Patient, error) {
	collection, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	patient := &patients.Patient{}
	err = collection.FindOne(ctx, bson.M{"patient_id": patientId}).Decode(patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, patients.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to fetch patient: %w", err)
	}

	return patient, nil
}

func (r *Repository) List(ctx context.Context, filter *patients.Filter) ([]*patients.Patient, error) {
	collection, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdTime", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := collection.Find(ctx, generateListFilterQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("error listing patients: %w", err)
	}

	list := make([]*patients.Patient, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("error decoding patients list: %w", err)
	}

	return list, nil
}

func (r *Repository) Create(ctx context.Context, patient patients.Patient) (*patients.Patient, error) {
	collection, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	count, err := collection.CountDocuments(ctx, bson.M{"patient_id": patient.PatientId})
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicate patients: %w", err)
	} else if count > 0 {
		return nil, patients.ErrDuplicate
	}

	now := time.Now()
	patient.Id = nil
	patient.CreatedTime = now
	patient.UpdatedTime = now
	if _, err = collection.InsertOne(ctx, patient); store.IsDuplicateKeyError(err) {
		return nil, patients.ErrDuplicate
	} else if err != nil {
		return nil, fmt.Errorf("error creating patient: %w", err)
	}

	return r.Get(ctx, patient.PatientId)
}

func (r *Repository) Update(ctx context.Context, update patients.PatientUpdate) (*patients.Patient, error) {
	collection, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	patient := &patients.Patient{}
	err = collection.FindOneAndUpdate(ctx, bson.M{"patient_id": update.PatientId}, bson.M{"$set": generateSetFields(update)}, opts).Decode(patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, patients.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error updating patient: %w", err)
	}

	return patient, nil
}

func (r *Repository) Delete(ctx context.Context, patientId string) (*patients.Patient, error) {
	collection, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	patient := &patients.Patient{}
	err = collection.FindOneAndDelete(ctx, bson.M{"patient_id": patientId}).Decode(patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, patients.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error deleting patient: %w", err)
	}

	return patient, nil
}

func (r *Repository) MaxPatientNumber(ctx context.Context) (int, error) {
	collection, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	prefixLength := len(patients.PatientIdPrefix)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"patient_id": primitive.Regex{Pattern: fmt.Sprintf(`^%s\d{1,%d}$`, regexp.QuoteMeta(patients.PatientIdPrefix), patients.MaxPatientIdDigits)},
		}}},
		{{Key: "$project", Value: bson.M{
			"number": bson.M{
				"$toLong": bson.M{
					"$substrCP": bson.A{
						"$patient_id",
						prefixLength,
						bson.M{"$subtract": bson.A{bson.M{"$strLenCP": "$patient_id"}, prefixLength}},
					},
				},
			},
		}}},
		{{Key: "$sort", Value: bson.M{"number": -1}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error finding the latest patient id: %w", err)
	}

	var results []struct {
		Number int64 `bson:"number"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error decoding the latest patient id: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	return int(results[0].Number), nil
}

func generateListFilterQuery(filter *patients.Filter) bson.M {
	selector := bson.M{}
	if filter == nil {
		return selector
	}
	if filter.Status != nil && *filter.Status != "" {
		selector["status"] = *filter.Status
	}
	if filter.Ward != nil && *filter.Ward != "" {
		selector["basic_details.ward"] = *filter.Ward
	}
	if filter.Search != nil {
		if search := strings.TrimSpace(*filter.Search); search != "" {
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
			selector["$or"] = bson.A{
				bson.M{"patient_id": pattern},
				bson.M{"basic_details.first_name": pattern},
				bson.M{"basic_details.middle_name": pattern},
				bson.M{"basic_details.last_name": pattern},
			}
		}
	}
	return selector
}

func generateSetFields(update patients.PatientUpdate) bson.M {
	set := bson.M{
		"updatedTime": time.Now(),
	}
	if update.BasicDetails != nil {
		set["basic_details"] = update.BasicDetails
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.MedicalHistory != nil {
		set["medical_history"] = update.MedicalHistory
	}
	if update.FamilyBackground != nil {
		set["family_background"] = update.FamilyBackground
	}
	if update.Vitals != nil {
		set["vitals"] = update.Vitals
	}
	if update.PrimaryDiagnosis != nil {
		set["primary_diagnosis"] = update.PrimaryDiagnosis
	}
	if update.LabResults != nil {
		set["lab_results"] = update.LabResults
	}
	if update.Medications != nil {
		set["medications"] = update.Medications
	}
	if update.Surgeries != nil {
		set["surgeries"] = update.Surgeries
	}
	if update.PatientLog != nil {
		set["patient_log"] = update.PatientLog
	}
	if update.ComplicationsAndRisks != nil {
		set["complications_and_risks"] = update.ComplicationsAndRisks
	}
	return set
}
