package sqlinline

const QSelectUserByID = `--sql 2634d45b-6bb6-4656-aa86-c180b6b99e85
select userid, quotaused, premium, premium_till
from userhwids
where userid = $1::text
limit 1;
`

const QGrantPremium = `--sql c88c63db-b4eb-4090-a1a3-79993fa09431
update userhwids
set premium = true,
    premium_till = $2::bigint
where userid = $1::text
returning premium_till;
`

const QResetFreeQuota = `--sql cf105879-7ead-4c88-9754-0fe45baceff4
update userhwids
set quotaused = 0
where premium = false;
`
