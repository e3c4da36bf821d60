// Package bucket brings a storage bucket into the target state for static
// website hosting: existing, empty, website-configured, and publicly readable.
package bucket

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/yourorg/site-deploy/internal/metrics"
	"github.com/yourorg/site-deploy/internal/storage"
)

// State is the observed condition of the target bucket, computed once during
// discovery and threaded through the remaining steps.
type State struct {
	Exists  bool
	Objects []string
}

func (s State) HasObjects() bool { return len(s.Objects) > 0 }

// Result summarizes what reconciliation did.
type Result struct {
	Existed bool
	Drained int
}

type Reconciler struct {
	store    storage.ObjectStore
	log      *zap.Logger
	indexDoc string
	errorDoc string
}

func NewReconciler(store storage.ObjectStore, log *zap.Logger, indexDoc, errorDoc string) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{store: store, log: log, indexDoc: indexDoc, errorDoc: errorDoc}
}

// Reconcile runs the fixed sequence: discover, drain, create, configure,
// authorize. The configure and authorize steps run unconditionally, so
// repeated runs converge to the same bucket configuration. There are no
// retries; the first store failure aborts.
func (r *Reconciler) Reconcile(ctx context.Context, bucket string) (Result, error) {
	st, err := r.discover(ctx, bucket)
	if err != nil {
		return Result{}, err
	}
	res := Result{Existed: st.Exists}

	if st.Exists {
		if st.HasObjects() {
			r.log.Info("draining bucket", zap.String("bucket", bucket), zap.Int("objects", len(st.Objects)))
			if err := r.store.DeleteObjects(ctx, bucket, st.Objects); err != nil {
				return res, err
			}
			metrics.ObjectsDrained.Add(float64(len(st.Objects)))
			res.Drained = len(st.Objects)
		}
	} else {
		r.log.Info("creating bucket", zap.String("bucket", bucket))
		if err := r.store.CreateBucket(ctx, bucket); err != nil {
			return res, err
		}
	}

	r.log.Info("configuring website hosting",
		zap.String("bucket", bucket),
		zap.String("index", r.indexDoc),
		zap.String("error", r.errorDoc))
	if err := r.store.PutBucketWebsite(ctx, bucket, r.indexDoc, r.errorDoc); err != nil {
		return res, err
	}

	policy, err := publicReadPolicy(bucket)
	if err != nil {
		return res, err
	}
	r.log.Info("applying public-read policy", zap.String("bucket", bucket))
	if err := r.store.PutBucketPolicy(ctx, bucket, policy); err != nil {
		return res, err
	}
	return res, nil
}

// discover lists visible buckets and, when the target exists, its objects.
func (r *Reconciler) discover(ctx context.Context, bucket string) (State, error) {
	names, err := r.store.ListBuckets(ctx)
	if err != nil {
		return State{}, err
	}
	var st State
	for _, name := range names {
		if name == bucket {
			st.Exists = true
			break
		}
	}
	if !st.Exists {
		return st, nil
	}
	st.Objects, err = r.store.ListObjects(ctx, bucket)
	if err != nil {
		return State{}, err
	}
	return st, nil
}

type policyStatement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// publicReadPolicy grants anonymous GetObject on every key in the bucket.
func publicReadPolicy(bucket string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicReadGetObject",
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  "arn:aws:s3:::" + bucket + "/*",
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
