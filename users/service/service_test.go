package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/wardbook/records/errors"
	"github.com/wardbook/records/pointer"
	"github.com/wardbook/records/store"
	"github.com/wardbook/records/users"
	usersService "github.com/wardbook/records/users/service"
	usersTest "github.com/wardbook/records/users/test"
)

var _ = Describe("Users Service", func() {
	var ctrl *gomock.Controller
	var repo *usersTest.MockRepository
	var svc users.Service
	var ctx context.Context

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		repo = usersTest.NewMockRepository(ctrl)
		svc, err = usersService.NewService(repo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("UpdateStatus", func() {
		It("stores Waiting as Pending", func() {
			user := usersTest.RandomUserWithId()
			repo.EXPECT().UpdateStatus(gomock.Any(), user.IdString(), users.StatusPending).Return(user, nil)

			_, err := svc.UpdateStatus(ctx, user.IdString(), users.StatusWaiting)
			Expect(err).ToNot(HaveOccurred())
		})

		DescribeTable("passes accepted statuses through",
			func(status string) {
				user := usersTest.RandomUserWithId()
				repo.EXPECT().UpdateStatus(gomock.Any(), user.IdString(), status).Return(user, nil)

				_, err := svc.UpdateStatus(ctx, user.IdString(), status)
				Expect(err).ToNot(HaveOccurred())
			},
			Entry("approved", users.StatusApproved),
			Entry("rejected", users.StatusRejected),
		)

		It("rejects unknown statuses without touching the repository", func() {
			_, err := svc.UpdateStatus(ctx, usersTest.RandomUserWithId().IdString(), "Suspended")
			Expect(err).To(MatchError(users.ErrInvalidStatus))
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("requires a user id", func() {
			_, err := svc.UpdateStatus(ctx, "", users.StatusApproved)
			Expect(err).To(MatchError(users.ErrMissingUserId))
		})

		It("propagates not found", func() {
			repo.EXPECT().UpdateStatus(gomock.Any(), "missing", users.StatusApproved).Return(nil, users.ErrNotFound)

			_, err := svc.UpdateStatus(ctx, "missing", users.StatusApproved)
			Expect(err).To(MatchError(errors.NotFound))
		})
	})

	Describe("List", func() {
		It("normalizes the status filter", func() {
			pagination := store.PageToPagination(2, 5)
			repo.EXPECT().
				List(gomock.Any(), &users.Filter{Status: pointer.FromString(users.StatusPending)}, pagination).
				Return(&users.ListResult{}, nil)

			_, err := svc.List(ctx, &users.Filter{Status: pointer.FromString(users.StatusWaiting)}, pagination)
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects an unknown status filter", func() {
			_, err := svc.List(ctx, &users.Filter{Status: pointer.FromString("Nope")}, store.DefaultPagination())
			Expect(err).To(MatchError(users.ErrInvalidStatus))
		})
	})

	Describe("Create", func() {
		It("defaults the status to pending", func() {
			user := usersTest.RandomUser()
			user.Status = ""
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *users.User) (*users.User, error) {
				Expect(u.Status).To(Equal(users.StatusPending))
				return u, nil
			})

			_, err := svc.Create(ctx, user)
			Expect(err).ToNot(HaveOccurred())
		})

		It("requires a username", func() {
			user := usersTest.RandomUser()
			user.Username = "  "
			_, err := svc.Create(ctx, user)
			Expect(err).To(MatchError(users.ErrMissingUsername))
		})
	})

	Describe("Delete", func() {
		It("requires a user id", func() {
			Expect(svc.Delete(ctx, "")).To(MatchError(users.ErrMissingUserId))
		})

		It("deletes through the repository", func() {
			repo.EXPECT().Delete(gomock.Any(), "abc").Return(nil)
			Expect(svc.Delete(ctx, "abc")).To(Succeed())
		})
	})
})
