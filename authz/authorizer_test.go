package authz_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/wardbook/records/authz"
	"github.com/wardbook/records/errors"
	"github.com/wardbook/records/users"
	usersTest "github.com/wardbook/records/users/test"
)

var _ = Describe("Request Authorizer", func() {
	var authorizer authz.RequestAuthorizer
	var admin *users.User
	var staff *users.User
	var ctx context.Context

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		authorizer, err = authz.NewRequestAuthorizer(users.NewRoleResolver("Admin"), zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		admin = usersTest.RandomUserWithId()
		admin.Position = "Admin"
		staff = usersTest.RandomUserWithId()
		staff.Position = "Nurse"
	})

	Describe("IsAdmin", func() {
		It("is true for the configured admin position", func() {
			Expect(authorizer.IsAdmin(ctx, admin)).To(BeTrue())
		})

		It("is false for other positions", func() {
			Expect(authorizer.IsAdmin(ctx, staff)).To(BeFalse())
		})

		It("is false without a user", func() {
			Expect(authorizer.IsAdmin(ctx, nil)).To(BeFalse())
		})

		It("does not depend on a fixed position value", func() {
			custom, err := authz.NewRequestAuthorizer(users.NewRoleResolver("Administrator"), zap.NewNop().Sugar())
			Expect(err).ToNot(HaveOccurred())
			Expect(custom.IsAdmin(ctx, admin)).To(BeFalse())

			admin.Position = "Administrator"
			Expect(custom.IsAdmin(ctx, admin)).To(BeTrue())
		})
	})

	Describe("RequireAdmin", func() {
		It("returns a forbidden error for staff", func() {
			err := authorizer.RequireAdmin(ctx, staff)
			Expect(err).To(MatchError(authz.ErrForbidden))
			Expect(err).To(MatchError(errors.Forbidden))
		})

		It("allows admins", func() {
			Expect(authorizer.RequireAdmin(ctx, admin)).To(Succeed())
		})
	})

	DescribeTable("Authorize",
		func(path string, user func() *users.User, allowed bool) {
			err := authorizer.Authorize(ctx, authz.Request{Method: "get", Path: path, User: user()})
			if allowed {
				Expect(err).ToNot(HaveOccurred())
			} else {
				Expect(err).To(MatchError(authz.ErrForbidden))
			}
		},
		Entry("staff on a patient page", "/patients/PT-0001", func() *users.User { return staff }, true),
		Entry("staff on the home page", "/", func() *users.User { return staff }, true),
		Entry("staff on an admin page", "/admin/users", func() *users.User { return staff }, false),
		Entry("staff on the admin api", "/api/admin/users", func() *users.User { return staff }, false),
		Entry("admin on an admin page", "/admin/users", func() *users.User { return admin }, true),
		Entry("admin on the admin api", "/api/admin/users", func() *users.User { return admin }, true),
		Entry("anonymous on a patient page", "/patients", func() *users.User { return nil }, false),
	)

	Describe("EvaluatePolicy", func() {
		It("denies requests without a user", func() {
			allowed, err := authorizer.EvaluatePolicy(ctx, "allow", map[string]interface{}{
				"path":   []string{"patients"},
				"method": "GET",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})
	})
})
