package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/okian/arena/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryKV(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		kv := repository.NewMemoryKV()
		ctx := context.Background()
		key := repository.ContestKey(1)

		Convey("When reading a missing key", func() {
			_, ok, err := kv.Get(ctx, key)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When setting and reading back", func() {
			So(kv.Set(ctx, key, []byte("payload")), ShouldBeNil)

			value, ok, err := kv.Get(ctx, key)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(value), ShouldEqual, "payload")
			So(kv.Len(), ShouldEqual, 1)

			Convey("And mutating the returned bytes does not touch the store", func() {
				value[0] = 'X'
				again, _, _ := kv.Get(ctx, key)
				So(string(again), ShouldEqual, "payload")
			})
		})

		Convey("When updating a missing key", func() {
			err := kv.Update(ctx, key, func(cur []byte, ok bool) ([]byte, error) {
				So(ok, ShouldBeFalse)
				So(cur, ShouldBeNil)
				return []byte("created"), nil
			})
			So(err, ShouldBeNil)

			value, ok, _ := kv.Get(ctx, key)
			So(ok, ShouldBeTrue)
			So(string(value), ShouldEqual, "created")
		})

		Convey("When the update callback fails", func() {
			So(kv.Set(ctx, key, []byte("before")), ShouldBeNil)

			wantErr := errors.New("boom")
			err := kv.Update(ctx, key, func(cur []byte, ok bool) ([]byte, error) {
				return nil, wantErr
			})
			So(errors.Is(err, wantErr), ShouldBeTrue)

			Convey("Then the stored value is unchanged", func() {
				value, _, _ := kv.Get(ctx, key)
				So(string(value), ShouldEqual, "before")
			})
		})

		Convey("When updating concurrently", func() {
			counter := repository.NextIDKey()
			const workers = 32

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = kv.Update(ctx, counter, func(cur []byte, ok bool) ([]byte, error) {
						var n uint64
						if ok {
							if err := repository.Decode(cur, &n); err != nil {
								return nil, err
							}
						}
						return repository.Encode(n + 1)
					})
				}()
			}
			wg.Wait()

			Convey("Then every increment is applied", func() {
				data, ok, err := kv.Get(ctx, counter)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				var n uint64
				So(repository.Decode(data, &n), ShouldBeNil)
				So(n, ShouldEqual, workers)
			})
		})

		Convey("When the store is closed", func() {
			So(kv.Close(), ShouldBeNil)

			_, _, err := kv.Get(ctx, key)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			So(errors.Is(kv.Set(ctx, key, nil), repository.ErrClosed), ShouldBeTrue)

			err = kv.Update(ctx, key, func([]byte, bool) ([]byte, error) { return nil, nil })
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestKeyEncoding(t *testing.T) {
	Convey("Given the typed key constructors", t, func() {
		Convey("Then each kind renders its canonical form", func() {
			So(repository.ContestKey(7).String(), ShouldEqual, "contest/7")
			So(repository.ActiveIndexKey().String(), ShouldEqual, "contest/active")
			So(repository.EntryKey(7, "alice").String(), ShouldEqual, "entry/7/alice")
			So(repository.EntryIndexKey(7).String(), ShouldEqual, "entry/7/index")
			So(repository.WinnersKey(7).String(), ShouldEqual, "winners/7")
			So(repository.PrizeKey(7, "alice").String(), ShouldEqual, "prize/7/alice")
			So(repository.NextIDKey().String(), ShouldEqual, "next_id")
		})

		Convey("Then keys of different kinds never collide", func() {
			seen := map[string]bool{}
			keys := []repository.Key{
				repository.ContestKey(7),
				repository.ActiveIndexKey(),
				repository.EntryKey(7, "alice"),
				repository.EntryIndexKey(7),
				repository.WinnersKey(7),
				repository.PrizeKey(7, "alice"),
				repository.NextIDKey(),
			}
			for _, k := range keys {
				So(seen[k.String()], ShouldBeFalse)
				seen[k.String()] = true
			}
		})
	})
}
